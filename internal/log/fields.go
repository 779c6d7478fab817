// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldComponent = "component"
	FieldCommand   = "command"

	// Configuration fields
	FieldKey       = "key"
	FieldSource    = "source"
	FieldSensitive = "sensitive"
	FieldFormat    = "format"
	FieldPath      = "path"

	// Broker fields
	FieldBroker   = "broker"
	FieldClientID = "client_id"
)
