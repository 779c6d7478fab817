// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML_ClientAlias(t *testing.T) {
	src := `
client: node-1
wifi:
  ssid: HomeNet
  password: secret
mqtt:
  host: broker.local
  port: 1883
`
	got, err := ParseYAML(strings.NewReader(src))
	require.NoError(t, err)

	want := Set{
		{Key: KeyClient, Value: StringValue("node-1")},
		{Key: KeyWiFiSSID, Value: StringValue("HomeNet")},
		{Key: KeyWiFiPass, Value: StringValue("secret")},
		{Key: KeyMQTTIP, Value: StringValue("broker.local")},
		{Key: KeyMQTTPort, Value: IntValue(1883)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseYAML mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAML_NullIsOmitted(t *testing.T) {
	got, err := ParseYAML(strings.NewReader("mqtt:\n  user:\n  password: ~\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseYAML_Empty(t *testing.T) {
	got, err := ParseYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = FromSet(got)
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestParseYAML_Errors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"unknown root key", "wlan:\n  ssid: a\n", ErrUnknownKey},
		{"unknown nested key", "wifi:\n  psk: a\n", ErrUnknownKey},
		{"quoted port", "mqtt:\n  port: \"1883\"\n", ErrTypeMismatch},
		{"port as list", "mqtt:\n  port: [1883]\n", ErrTypeMismatch},
		{"repeated key", "wifi:\n  ssid: a\n  ssid: b\n", ErrDuplicateKey},
		{"repeated section", "wifi:\n  ssid: a\nwifi:\n  password: b\n", ErrDuplicateKey},
		{"port overflows int64", "mqtt:\n  port: 99999999999999999999\n", ErrOutOfRange},
		{"port overflows uint64 range", "mqtt:\n  port: 18446744073709551615\n", ErrOutOfRange},
		{"quoted huge port", "mqtt:\n  port: \"99999999999999999999\"\n", ErrTypeMismatch},
		{"multiple documents", "wifi:\n  ssid: a\n---\nwifi:\n  ssid: b\n", ErrSyntax},
		{"malformed", "wifi: [unclosed\n", ErrSyntax},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseYAML(strings.NewReader(tc.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderYAML(&buf, kitchenSensor().Set(), RenderOptions{}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Use this file to store all private information\n"), out)
	assert.Contains(t, out, "device: kitchen-sensor\n")
	assert.Contains(t, out, "wifi:\n  ssid: HomeNet\n  password: 's3cr3t: #1'\n")
	assert.Contains(t, out, "mqtt:\n  host: 192.168.1.10\n  port: 1883\n  user: \"\"\n  password: \"\"\n")
	assert.Contains(t, out, "ota:\n  password: otapass\n  port: 8266\n")

	got, err := ParseYAML(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(kitchenSensor().Set(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderYAML_Comments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderYAML(&buf, ExampleSet(), RenderOptions{Comments: true}))

	out := buf.String()
	assert.Contains(t, out, "port: 1883 # replace 1883 with your MQTT port")
	assert.Contains(t, out, "device: MyDeviceName # replace MyDeviceName")
}

func TestRenderYAML_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		set     Set
		wantErr error
	}{
		{"unknown key", Set{{Key: "SECRET_FOO", Value: StringValue("x")}}, ErrUnknownKey},
		{
			"repeated key",
			Set{{Key: KeyWiFiSSID, Value: StringValue("a")}, {Key: KeyWiFiSSID, Value: StringValue("b")}},
			ErrDuplicateKey,
		},
		{"wrong kind", Set{{Key: KeyMQTTPort, Value: StringValue("1883")}}, ErrTypeMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := RenderYAML(&buf, tc.set, RenderOptions{})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
