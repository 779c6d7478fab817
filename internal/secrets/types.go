// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"net"
	"strconv"
)

// Secrets is the typed, validated secrets record.
// Optional keys are pointers: nil means the key was omitted, a pointer to ""
// means it was supplied empty.
type Secrets struct {
	Device *string
	WiFi   WiFi
	MQTT   MQTT
	OTA    OTA
}

// WiFi holds the network join credentials.
type WiFi struct {
	SSID     string
	Password string
}

// MQTT holds the broker endpoint and optional credentials.
type MQTT struct {
	Host     string
	Port     uint16
	User     *string
	Password *string
}

// OTA holds the over-the-air update credentials. Both keys are independently optional.
type OTA struct {
	Password *string
	Port     *uint16
}

// DeviceName returns the device name or "" when omitted.
func (s Secrets) DeviceName() string {
	return deref(s.Device)
}

// Anonymous reports whether the broker connection carries no credentials.
// Omitted and empty user/password are treated the same.
func (m MQTT) Anonymous() bool {
	return deref(m.User) == "" && deref(m.Password) == ""
}

// Address returns host:port for the broker.
func (m MQTT) Address() string {
	return net.JoinHostPort(m.Host, strconv.Itoa(int(m.Port)))
}

// Enabled reports whether any OTA key was supplied.
func (o OTA) Enabled() bool {
	return o.Password != nil || o.Port != nil
}

// Ptr returns a pointer to v. Handy for populating optional fields.
func Ptr[T any](v T) *T {
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
