// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"fmt"
	"strconv"

	"github.com/ManuGH/devsecrets/internal/validate"
)

// FromSet converts a raw entry set into Secrets.
//
// Structural problems (unknown key, repeated key, literal of the wrong type,
// alias spellings with different values) fail immediately. Value problems
// (missing required key, port out of range, unrepresentable string) are
// accumulated and reported together.
func FromSet(set Set) (Secrets, error) {
	reg := mustRegistry()

	seen := make(map[string]struct{}, len(set))
	resolved := make(map[string]Entry, len(set))

	for _, e := range set {
		info, ok := reg.Lookup(e.Key)
		if !ok {
			return Secrets{}, fmt.Errorf("%w: %s", ErrUnknownKey, e.Key)
		}
		if _, dup := seen[e.Key]; dup {
			return Secrets{}, fmt.Errorf("%w: %s", ErrDuplicateKey, e.Key)
		}
		seen[e.Key] = struct{}{}

		if e.Value.Kind() != info.Kind {
			return Secrets{}, fmt.Errorf("%w: %s must be a %s literal, got %s",
				ErrTypeMismatch, e.Key, info.Kind, e.Value.Kind())
		}

		if prev, ok := resolved[info.Name]; ok {
			if !prev.Value.Equal(e.Value) {
				return Secrets{}, fmt.Errorf("%w: %s and %s differ",
					ErrAliasConflict, prev.Key, e.Key)
			}
			continue
		}
		resolved[info.Name] = e
	}

	v := validate.New()
	var causes []error
	missing, outOfRange, badLiteral := false, false, false

	for _, info := range reg.Keys() {
		e, ok := resolved[info.Name]
		if !info.Optional && !ok {
			v.Required(info.Name, false)
			missing = true
		}
		if !ok {
			continue
		}
		before := len(v.Errors())
		switch info.Kind {
		case KindInt:
			v.Port(e.Key, e.Value.Int())
			outOfRange = outOfRange || len(v.Errors()) > before
		case KindString:
			v.Literal(e.Key, e.Value.Text())
			badLiteral = badLiteral || len(v.Errors()) > before
		}
	}

	if !v.IsValid() {
		if missing {
			causes = append(causes, ErrMissingKey)
		}
		if outOfRange {
			causes = append(causes, ErrOutOfRange)
		}
		if badLiteral {
			causes = append(causes, ErrInvalidLiteral)
		}
		return Secrets{}, &schemaError{causes: causes, err: v.Err()}
	}

	var s Secrets
	for name, e := range resolved {
		assign(&s, name, e.Value)
	}
	return s, nil
}

func assign(s *Secrets, name string, v Value) {
	switch name {
	case KeyDevice:
		s.Device = Ptr(v.Text())
	case KeyWiFiSSID:
		s.WiFi.SSID = v.Text()
	case KeyWiFiPass:
		s.WiFi.Password = v.Text()
	case KeyMQTTIP:
		s.MQTT.Host = v.Text()
	case KeyMQTTPort:
		s.MQTT.Port = uint16(v.Int())
	case KeyMQTTUser:
		s.MQTT.User = Ptr(v.Text())
	case KeyMQTTPass:
		s.MQTT.Password = Ptr(v.Text())
	case KeyOTAPass:
		s.OTA.Password = Ptr(v.Text())
	case KeyOTAPort:
		s.OTA.Port = Ptr(uint16(v.Int()))
	}
}

// Set returns the canonical entries of s in registry order. Omitted optional
// keys are left out.
func (s Secrets) Set() Set {
	set := Set{}
	add := func(key string, v Value) {
		set = append(set, Entry{Key: key, Value: v})
	}
	if s.Device != nil {
		add(KeyDevice, StringValue(*s.Device))
	}
	add(KeyWiFiSSID, StringValue(s.WiFi.SSID))
	add(KeyWiFiPass, StringValue(s.WiFi.Password))
	add(KeyMQTTIP, StringValue(s.MQTT.Host))
	add(KeyMQTTPort, IntValue(int64(s.MQTT.Port)))
	if s.MQTT.User != nil {
		add(KeyMQTTUser, StringValue(*s.MQTT.User))
	}
	if s.MQTT.Password != nil {
		add(KeyMQTTPass, StringValue(*s.MQTT.Password))
	}
	if s.OTA.Password != nil {
		add(KeyOTAPass, StringValue(*s.OTA.Password))
	}
	if s.OTA.Port != nil {
		add(KeyOTAPort, IntValue(int64(*s.OTA.Port)))
	}
	return set
}

// Validate checks that every string in s can be written as a literal.
// Ports are range-checked by construction.
func Validate(s Secrets) error {
	_, err := FromSet(s.Set())
	return err
}

// ExampleSet returns the placeholder entries of the example template, all keys
// included, in canonical order.
func ExampleSet() Set {
	reg := mustRegistry()
	set := make(Set, 0, len(reg.keys))
	for _, info := range reg.Keys() {
		var v Value
		if info.Kind == KindInt {
			n, err := strconv.ParseInt(info.Example, 10, 64)
			if err != nil {
				panic(fmt.Sprintf("secrets: example for %s is not an integer: %v", info.Name, err))
			}
			v = IntValue(n)
		} else {
			v = StringValue(info.Example)
		}
		set = append(set, Entry{Key: info.Name, Value: v})
	}
	return set
}

// Example returns the placeholder Secrets shipped in the example template.
func Example() Secrets {
	s, err := FromSet(ExampleSet())
	if err != nil {
		panic(fmt.Sprintf("secrets: example template is invalid: %v", err))
	}
	return s
}
