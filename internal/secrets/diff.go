// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

// Diff returns the canonical keys whose value or presence differs between a
// and b, in registry order.
func Diff(a, b Secrets) []string {
	av, bv := canonicalValues(a), canonicalValues(b)

	var changed []string
	for _, info := range mustRegistry().Keys() {
		x, inA := av[info.Name]
		y, inB := bv[info.Name]
		if inA != inB || !x.Equal(y) {
			changed = append(changed, info.Name)
		}
	}
	return changed
}

func canonicalValues(s Secrets) map[string]Value {
	out := make(map[string]Value)
	for _, e := range s.Set() {
		out[e.Key] = e.Value
	}
	return out
}

// Finding is one advisory lint result. Findings never make a file invalid.
type Finding struct {
	Key     string
	Message string
}

func (f Finding) String() string {
	return f.Key + ": " + f.Message
}

// Lint reports likely mistakes in otherwise valid secrets: placeholders that
// were never replaced, empty network settings and half-configured credentials.
func Lint(s Secrets) []Finding {
	var out []Finding
	add := func(key, msg string) {
		out = append(out, Finding{Key: key, Message: msg})
	}

	example := canonicalValues(Example())
	current := canonicalValues(s)
	for _, info := range mustRegistry().Keys() {
		v, ok := current[info.Name]
		if !ok || info.Kind != KindString || v.Text() == "" {
			continue
		}
		if v.Equal(example[info.Name]) {
			add(info.Name, "still set to the example placeholder")
		}
	}

	if s.DeviceName() == "" {
		add(KeyDevice, "no device name; an MQTT client ID will be generated")
	}
	if s.WiFi.SSID == "" {
		add(KeyWiFiSSID, "is empty")
	}
	if s.MQTT.Host == "" {
		add(KeyMQTTIP, "is empty")
	}

	user, pass := deref(s.MQTT.User), deref(s.MQTT.Password)
	switch {
	case user != "" && pass == "":
		add(KeyMQTTPass, "MQTT user is set without a password")
	case user == "" && pass != "":
		add(KeyMQTTUser, "MQTT password is set without a user")
	}

	switch {
	case s.OTA.Password != nil && s.OTA.Port == nil:
		add(KeyOTAPort, "OTA password is set without a port")
	case s.OTA.Password == nil && s.OTA.Port != nil:
		add(KeyOTAPass, "OTA port is set without a password")
	}

	return out
}
