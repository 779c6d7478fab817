// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import "errors"

// Use errors.Is to classify failures instead of string matching.
var (
	ErrUnknownKey        = errors.New("unknown secret key")
	ErrDuplicateKey      = errors.New("duplicate secret key")
	ErrMissingKey        = errors.New("missing required secret key")
	ErrAliasConflict     = errors.New("conflicting alias values")
	ErrTypeMismatch      = errors.New("literal type mismatch")
	ErrOutOfRange        = errors.New("value out of range")
	ErrInvalidLiteral    = errors.New("invalid literal")
	ErrSyntax            = errors.New("syntax error")
	ErrUnsupportedFormat = errors.New("unsupported secrets format")
)

// schemaError carries the accumulated validation message while exposing the
// sentinel classes it contains to errors.Is.
type schemaError struct {
	causes []error
	err    error
}

func (e *schemaError) Error() string { return e.err.Error() }

func (e *schemaError) Unwrap() []error {
	return append(append([]error{}, e.causes...), e.err)
}
