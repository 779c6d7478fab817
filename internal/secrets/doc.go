// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package secrets models the device secrets surface consumed by firmware builds:
// device name, WiFi credentials, MQTT broker endpoint and credentials, and OTA
// update credentials.
//
// A secrets file is read into a raw Set of (key, literal) entries by one of the
// codecs (C header, dotenv, YAML), then converted into the typed Secrets record
// by FromSet, which enforces the key registry. The populated file is expected to
// stay local; only the secrets.example.* templates belong in version control.
package secrets
