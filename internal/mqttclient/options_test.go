// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package mqttclient

import (
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/devsecrets/internal/secrets"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func base() secrets.Secrets {
	return secrets.Secrets{
		Device: secrets.Ptr("kitchen-sensor"),
		WiFi:   secrets.WiFi{SSID: "HomeNet", Password: "secret"},
		MQTT:   secrets.MQTT{Host: "192.168.1.10", Port: 1883},
	}
}

func TestOptions_Anonymous(t *testing.T) {
	cases := []struct {
		name     string
		user     *string
		password *string
	}{
		{"omitted", nil, nil},
		{"empty", secrets.Ptr(""), secrets.Ptr("")},
		{"empty user only", secrets.Ptr(""), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := base()
			s.MQTT.User, s.MQTT.Password = tc.user, tc.password

			opts := Options(s)
			assert.Empty(t, opts.Username)
			assert.Empty(t, opts.Password)
			assert.Equal(t, AuthAnonymous, Describe(opts).Auth)
		})
	}
}

func TestOptions_Credentials(t *testing.T) {
	s := base()
	s.MQTT.User = secrets.Ptr("bob")
	s.MQTT.Password = secrets.Ptr("hunter2")

	opts := Options(s)
	assert.Equal(t, "bob", opts.Username)
	assert.Equal(t, "hunter2", opts.Password)

	sum := Describe(opts)
	assert.Equal(t, AuthPassword, sum.Auth)
	assert.Equal(t, "bob", sum.Username)
	assert.True(t, sum.HasPassword)
}

func TestOptions_Broker(t *testing.T) {
	opts := Options(base())
	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "tcp://192.168.1.10:1883", opts.Servers[0].String())
	assert.Equal(t, "kitchen-sensor", opts.ClientID)

	s := base()
	s.MQTT.Host = "fd00::10"
	assert.Equal(t, "tcp://[fd00::10]:1883", BrokerURL(s.MQTT))
}

func TestClientID_Generated(t *testing.T) {
	s := base()
	s.Device = nil
	a, b := ClientID(s), ClientID(s)

	assert.True(t, strings.HasPrefix(a, ClientIDPrefix))
	assert.Len(t, a, len(ClientIDPrefix)+8)
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), 23, "MQTT 3.1.1 servers must accept client IDs up to 23 bytes")

	s.Device = secrets.Ptr("")
	assert.True(t, strings.HasPrefix(ClientID(s), ClientIDPrefix))
}

func TestNewOptions_Config(t *testing.T) {
	cfg := Config{KeepAlive: 30 * time.Second, ConnectTimeout: 5 * time.Second}
	opts := NewOptions(base(), cfg)

	assert.Equal(t, int64(30), opts.KeepAlive)
	assert.Equal(t, 5*time.Second, opts.ConnectTimeout)
	assert.False(t, opts.CleanSession)
	assert.False(t, opts.AutoReconnect)

	sum := Describe(opts)
	assert.Equal(t, int64(30), sum.KeepAlive)
	assert.False(t, sum.CleanSession)
}

func TestNewClient_DoesNotConnect(t *testing.T) {
	client := mqtt.NewClient(Options(base()))
	assert.False(t, client.IsConnected())

	r := client.OptionsReader()
	assert.Equal(t, "kitchen-sensor", r.ClientID())
}
