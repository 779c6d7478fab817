// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"fmt"
	"strings"
	"sync"
)

// Canonical define names.
const (
	KeyDevice   = "SECRET_DEVICE"
	KeyWiFiSSID = "SECRET_WIFI_SSID"
	KeyWiFiPass = "SECRET_WIFI_PASS"
	KeyMQTTIP   = "SECRET_MQTT_IP"
	KeyMQTTPort = "SECRET_MQTT_PORT"
	KeyMQTTUser = "SECRET_MQTT_USER"
	KeyMQTTPass = "SECRET_MQTT_PASS"
	KeyOTAPass  = "SECRET_OTA_PASS"
	KeyOTAPort  = "SECRET_OTA_PORT"

	// KeyClient is the device-name spelling used by firmware variants without OTA.
	KeyClient = "SECRET_CLIENT"
)

// KeyPrefix is shared by every recognised define name.
const KeyPrefix = "SECRET_"

// KeyInfo describes a single recognised secret key.
type KeyInfo struct {
	Name        string   // define / environment name (e.g. "SECRET_WIFI_SSID")
	Aliases     []string // alternative define names (e.g. "SECRET_CLIENT")
	Path        string   // YAML path (e.g. "wifi.ssid")
	PathAliases []string // alternative YAML paths (e.g. "client")
	Kind        Kind     // KindString or KindInt; integer keys are ports
	Optional    bool     // key may be omitted entirely
	Sensitive   bool     // value is masked in dumps and never logged
	Example     string   // placeholder value used by the example template
	Description string   // one-line hint rendered next to the key
}

// Registry is the immutable inventory of recognised keys.
type Registry struct {
	keys   []KeyInfo
	byName map[string]KeyInfo
	byPath map[string]KeyInfo
}

var (
	globalRegistry    *Registry
	globalRegistryErr error
	registryOnce      sync.Once
)

// GetRegistry returns the global key registry.
// It returns an error if the registry contains duplicates or is otherwise invalid.
// Thread-safe via sync.Once.
func GetRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		globalRegistry, globalRegistryErr = buildRegistry(registryEntries())
	})
	return globalRegistry, globalRegistryErr
}

func mustRegistry() *Registry {
	r, err := GetRegistry()
	if err != nil {
		panic(fmt.Sprintf("secrets: invalid key registry: %v", err))
	}
	return r
}

func registryEntries() []KeyInfo {
	return []KeyInfo{
		// --- DEVICE ---
		{Name: KeyDevice, Aliases: []string{KeyClient}, Path: "device", PathAliases: []string{"client"}, Kind: KindString, Optional: true, Example: "MyDeviceName", Description: "replace MyDeviceName with the name you want your device to have"},

		// --- WIFI ---
		{Name: KeyWiFiSSID, Path: "wifi.ssid", Kind: KindString, Example: "MySSID", Description: "replace MySSID with your WiFi network name"},
		{Name: KeyWiFiPass, Path: "wifi.password", Kind: KindString, Sensitive: true, Example: "MyPassword", Description: "replace MyPassword with your WiFi password"},

		// --- MQTT ---
		{Name: KeyMQTTIP, Path: "mqtt.host", Kind: KindString, Example: "MyMqttIp", Description: "replace MyMqttIp with your MQTT broker IP"},
		{Name: KeyMQTTPort, Path: "mqtt.port", Kind: KindInt, Example: "1883", Description: "replace 1883 with your MQTT port"},
		{Name: KeyMQTTUser, Path: "mqtt.user", Kind: KindString, Optional: true, Example: "MyMqttUser", Description: "replace MyMqttUser with your MQTT user. Leave blank if optional"},
		{Name: KeyMQTTPass, Path: "mqtt.password", Kind: KindString, Optional: true, Sensitive: true, Example: "MyMqttPass", Description: "replace MyMqttPass with your MQTT password. Leave blank if optional"},

		// --- OTA ---
		{Name: KeyOTAPass, Path: "ota.password", Kind: KindString, Optional: true, Sensitive: true, Example: "MyOtaPass", Description: "replace MyOtaPass with the password for OTA authentication"},
		{Name: KeyOTAPort, Path: "ota.port", Kind: KindInt, Optional: true, Example: "8266", Description: "replace 8266 with your desired port"},
	}
}

func buildRegistry(entries []KeyInfo) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]KeyInfo),
		byPath: make(map[string]KeyInfo),
	}

	for _, e := range entries {
		if !strings.HasPrefix(e.Name, KeyPrefix) {
			return nil, fmt.Errorf("key %q lacks %s prefix", e.Name, KeyPrefix)
		}
		if e.Path == "" {
			return nil, fmt.Errorf("key %q has no path", e.Name)
		}
		names := append([]string{e.Name}, e.Aliases...)
		for _, n := range names {
			if _, dup := r.byName[n]; dup {
				return nil, fmt.Errorf("duplicate key name %q", n)
			}
			r.byName[n] = e
		}
		paths := append([]string{e.Path}, e.PathAliases...)
		for _, p := range paths {
			if _, dup := r.byPath[p]; dup {
				return nil, fmt.Errorf("duplicate key path %q", p)
			}
			r.byPath[p] = e
		}
		r.keys = append(r.keys, e)
	}

	return r, nil
}

// Keys returns the recognised keys in canonical order.
func (r *Registry) Keys() []KeyInfo {
	out := make([]KeyInfo, len(r.keys))
	copy(out, r.keys)
	return out
}

// Lookup resolves a define name or alias.
func (r *Registry) Lookup(name string) (KeyInfo, bool) {
	info, ok := r.byName[name]
	return info, ok
}

// LookupPath resolves a YAML path or path alias.
func (r *Registry) LookupPath(path string) (KeyInfo, bool) {
	info, ok := r.byPath[path]
	return info, ok
}

// Names returns every accepted define name, aliases included, in canonical order.
func (r *Registry) Names() []string {
	var out []string
	for _, k := range r.keys {
		out = append(out, k.Name)
		out = append(out, k.Aliases...)
	}
	return out
}

// IsAlias reports whether name is an alternative spelling of a canonical key.
func (info KeyInfo) IsAlias(name string) bool {
	for _, a := range info.Aliases {
		if a == name {
			return true
		}
	}
	return false
}
