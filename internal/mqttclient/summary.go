// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package mqttclient

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Auth modes reported by Summary.
const (
	AuthAnonymous = "anonymous"
	AuthPassword  = "password"
)

// Summary is a printable view of client options. It never carries the password.
type Summary struct {
	Broker       string `json:"broker" yaml:"broker"`
	ClientID     string `json:"client_id" yaml:"client_id"`
	Auth         string `json:"auth" yaml:"auth"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	HasPassword  bool   `json:"has_password" yaml:"has_password"`
	KeepAlive    int64  `json:"keep_alive_seconds" yaml:"keep_alive_seconds"`
	CleanSession bool   `json:"clean_session" yaml:"clean_session"`
}

// Describe summarises opts for display.
func Describe(opts *mqtt.ClientOptions) Summary {
	r := mqtt.NewOptionsReader(opts)

	s := Summary{
		ClientID:     r.ClientID(),
		Auth:         AuthAnonymous,
		Username:     r.Username(),
		HasPassword:  r.Password() != "",
		KeepAlive:    int64(r.KeepAlive().Seconds()),
		CleanSession: r.CleanSession(),
	}
	if servers := r.Servers(); len(servers) > 0 {
		s.Broker = servers[0].String()
	}
	if s.Username != "" || s.HasPassword {
		s.Auth = AuthPassword
	}
	return s
}
