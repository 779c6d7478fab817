// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CanonicalOrder(t *testing.T) {
	reg, err := GetRegistry()
	require.NoError(t, err)

	var names []string
	for _, k := range reg.Keys() {
		names = append(names, k.Name)
	}
	assert.Equal(t, []string{
		KeyDevice, KeyWiFiSSID, KeyWiFiPass,
		KeyMQTTIP, KeyMQTTPort, KeyMQTTUser, KeyMQTTPass,
		KeyOTAPass, KeyOTAPort,
	}, names)
}

func TestRegistry_Optionality(t *testing.T) {
	reg, err := GetRegistry()
	require.NoError(t, err)

	required := map[string]bool{
		KeyWiFiSSID: true, KeyWiFiPass: true, KeyMQTTIP: true, KeyMQTTPort: true,
	}
	for _, k := range reg.Keys() {
		assert.Equal(t, !required[k.Name], k.Optional, "optional flag of %s", k.Name)
		assert.True(t, strings.HasPrefix(k.Name, KeyPrefix))
		assert.NotEmpty(t, k.Description, "description of %s", k.Name)
	}
}

func TestRegistry_Aliases(t *testing.T) {
	reg, err := GetRegistry()
	require.NoError(t, err)

	info, ok := reg.Lookup(KeyClient)
	require.True(t, ok)
	assert.Equal(t, KeyDevice, info.Name)
	assert.True(t, info.IsAlias(KeyClient))
	assert.False(t, info.IsAlias(KeyDevice))

	byPath, ok := reg.LookupPath("client")
	require.True(t, ok)
	assert.Equal(t, KeyDevice, byPath.Name)

	mqttPort, ok := reg.LookupPath("mqtt.port")
	require.True(t, ok)
	assert.Equal(t, KindInt, mqttPort.Kind)

	_, ok = reg.Lookup("SECRET_WIFI_PASSWORD")
	assert.False(t, ok)

	assert.Contains(t, reg.Names(), KeyClient)
	assert.Len(t, reg.Names(), len(reg.Keys())+1)
}

func TestBuildRegistry_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		entries []KeyInfo
		want    string
	}{
		{
			name:    "missing prefix",
			entries: []KeyInfo{{Name: "WIFI_SSID", Path: "wifi.ssid"}},
			want:    "lacks SECRET_ prefix",
		},
		{
			name:    "missing path",
			entries: []KeyInfo{{Name: "SECRET_A"}},
			want:    "has no path",
		},
		{
			name: "duplicate alias",
			entries: []KeyInfo{
				{Name: "SECRET_A", Path: "a"},
				{Name: "SECRET_B", Aliases: []string{"SECRET_A"}, Path: "b"},
			},
			want: `duplicate key name "SECRET_A"`,
		},
		{
			name: "duplicate path",
			entries: []KeyInfo{
				{Name: "SECRET_A", Path: "a"},
				{Name: "SECRET_B", Path: "b", PathAliases: []string{"a"}},
			},
			want: `duplicate key path "a"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildRegistry(tc.entries)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
