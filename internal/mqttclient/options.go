// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package mqttclient turns the MQTT section of the device secrets into
// paho client options, the way the firmware's broker connection uses them.
// It never connects.
package mqttclient

import (
	"net"
	"strconv"
	"time"

	"github.com/ManuGH/devsecrets/internal/log"
	"github.com/ManuGH/devsecrets/internal/secrets"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// ClientIDPrefix starts generated client IDs for devices without a name.
const ClientIDPrefix = "devsecrets-"

// Config holds connection tuning that is not part of the secrets surface.
type Config struct {
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	CleanSession   bool
	AutoReconnect  bool
}

// DefaultConfig returns the tuning used by Options.
func DefaultConfig() Config {
	return Config{
		KeepAlive:      60 * time.Second,
		ConnectTimeout: 10 * time.Second,
		CleanSession:   true,
		AutoReconnect:  true,
	}
}

// Options builds client options from s with DefaultConfig.
func Options(s secrets.Secrets) *mqtt.ClientOptions {
	return NewOptions(s, DefaultConfig())
}

// NewOptions builds client options for the broker in s.
// Credentials are only set when the MQTT section is not anonymous; an empty
// user and password mean "no authentication".
func NewOptions(s secrets.Secrets, cfg Config) *mqtt.ClientOptions {
	broker, clientID := BrokerURL(s.MQTT), ClientID(s)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(cfg.CleanSession)
	opts.SetAutoReconnect(cfg.AutoReconnect)
	opts.SetKeepAlive(cfg.KeepAlive)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetProtocolVersion(4) // MQTT 3.1.1

	if !s.MQTT.Anonymous() {
		if s.MQTT.User != nil {
			opts.SetUsername(*s.MQTT.User)
		}
		if s.MQTT.Password != nil {
			opts.SetPassword(*s.MQTT.Password)
		}
	}

	logger := log.WithComponent("mqttclient")
	logger.Debug().
		Str(log.FieldBroker, broker).
		Str(log.FieldClientID, clientID).
		Bool("anonymous", s.MQTT.Anonymous()).
		Msg("built client options")
	return opts
}

// BrokerURL returns the tcp:// URL of the broker.
func BrokerURL(m secrets.MQTT) string {
	return "tcp://" + net.JoinHostPort(m.Host, strconv.Itoa(int(m.Port)))
}

// ClientID returns the device name, or a generated ID when the device has none.
func ClientID(s secrets.Secrets) string {
	if name := s.DeviceName(); name != "" {
		return name
	}
	return ClientIDPrefix + uuid.NewString()[:8]
}
