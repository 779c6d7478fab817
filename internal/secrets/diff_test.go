// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff(Example(), Example()))

	next := Example()
	next.MQTT.Port = 8883
	next.OTA.Port = nil
	next.Device = Ptr("MyDeviceName") // same value, new pointer

	assert.Equal(t, []string{KeyMQTTPort, KeyOTAPort}, Diff(Example(), next))
}

func TestDiff_EmptyVersusOmitted(t *testing.T) {
	a := kitchenSensor()
	b := kitchenSensor()
	b.MQTT.User = nil

	assert.Equal(t, []string{KeyMQTTUser}, Diff(a, b))
}

func TestLint_Example(t *testing.T) {
	findings := Lint(Example())

	var keys []string
	for _, f := range findings {
		assert.Equal(t, "still set to the example placeholder", f.Message)
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		KeyDevice, KeyWiFiSSID, KeyWiFiPass, KeyMQTTIP, KeyMQTTUser, KeyMQTTPass, KeyOTAPass,
	}, keys)
}

func TestLint_Clean(t *testing.T) {
	assert.Empty(t, Lint(kitchenSensor()))
}

func TestLint_Findings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Secrets)
		want   []Finding
	}{
		{
			name:   "no device name",
			mutate: func(s *Secrets) { s.Device = nil },
			want:   []Finding{{Key: KeyDevice, Message: "no device name; an MQTT client ID will be generated"}},
		},
		{
			name:   "empty ssid and host",
			mutate: func(s *Secrets) { s.WiFi.SSID = ""; s.MQTT.Host = "" },
			want: []Finding{
				{Key: KeyWiFiSSID, Message: "is empty"},
				{Key: KeyMQTTIP, Message: "is empty"},
			},
		},
		{
			name:   "mqtt user without password",
			mutate: func(s *Secrets) { s.MQTT.User = Ptr("bob") },
			want:   []Finding{{Key: KeyMQTTPass, Message: "MQTT user is set without a password"}},
		},
		{
			name:   "mqtt password without user",
			mutate: func(s *Secrets) { s.MQTT.User = nil; s.MQTT.Password = Ptr("pw") },
			want:   []Finding{{Key: KeyMQTTUser, Message: "MQTT password is set without a user"}},
		},
		{
			name:   "ota password without port",
			mutate: func(s *Secrets) { s.OTA.Port = nil },
			want:   []Finding{{Key: KeyOTAPort, Message: "OTA password is set without a port"}},
		},
		{
			name:   "ota port without password",
			mutate: func(s *Secrets) { s.OTA.Password = nil },
			want:   []Finding{{Key: KeyOTAPass, Message: "OTA port is set without a password"}},
		},
		{
			name:   "no ota at all",
			mutate: func(s *Secrets) { s.OTA = OTA{} },
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := kitchenSensor()
			tc.mutate(&s)
			assert.Equal(t, tc.want, Lint(s))
		})
	}
}

func TestFinding_String(t *testing.T) {
	f := Finding{Key: KeyWiFiSSID, Message: "is empty"}
	assert.Equal(t, "SECRET_WIFI_SSID: is empty", f.String())
}
