package secrets

import (
	"os"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	// Unset all SECRET_ vars so the developer's shell cannot leak into loader tests.
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, KeyPrefix) {
			key, _, _ := strings.Cut(e, "=")
			if err := os.Unsetenv(key); err != nil {
				panic("failed to unset env: " + err.Error())
			}
		}
	}

	os.Exit(m.Run())
}

// kitchenSensor is the record stored in testdata/valid.{h,env,yaml}.
func kitchenSensor() Secrets {
	return Secrets{
		Device: Ptr("kitchen-sensor"),
		WiFi:   WiFi{SSID: "HomeNet", Password: "s3cr3t: #1"},
		MQTT: MQTT{
			Host:     "192.168.1.10",
			Port:     1883,
			User:     Ptr(""),
			Password: Ptr(""),
		},
		OTA: OTA{Password: Ptr("otapass"), Port: Ptr[uint16](8266)},
	}
}
