// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"strconv"
)

// Kind is the literal type of a value.
type Kind int

const (
	KindString Kind = iota
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single string or integer literal.
type Value struct {
	kind Kind
	text string
	num  int64
}

// StringValue returns a string literal value.
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// IntValue returns an integer literal value.
func IntValue(n int64) Value {
	return Value{kind: KindInt, num: n}
}

// Kind reports the literal type.
func (v Value) Kind() Kind { return v.kind }

// Text returns the string payload; empty for integer values.
func (v Value) Text() string { return v.text }

// Int returns the integer payload; zero for string values.
func (v Value) Int() int64 { return v.num }

// String renders the value for display without quoting.
func (v Value) String() string {
	if v.kind == KindInt {
		return strconv.FormatInt(v.num, 10)
	}
	return v.text
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

// Entry is one (key, value) pair as written in a secrets file.
type Entry struct {
	Key   string
	Value Value
}

// Set is an ordered list of entries. It keeps the spelling and order found in
// the source so that encoding a Set and decoding it again is lossless.
type Set []Entry

// Get returns the first value stored under key.
func (s Set) Get(key string) (Value, bool) {
	for _, e := range s {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Keys returns the keys in order, duplicates included.
func (s Set) Keys() []string {
	out := make([]string, len(s))
	for i, e := range s {
		out[i] = e.Key
	}
	return out
}

// Masked returns a copy with non-empty sensitive string values replaced by "***".
func (s Set) Masked() Set {
	reg := mustRegistry()
	out := make(Set, len(s))
	for i, e := range s {
		out[i] = e
		sensitive := isSensitiveKey(e.Key)
		if info, ok := reg.Lookup(e.Key); ok {
			sensitive = info.Sensitive
		}
		if sensitive && e.Value.Kind() == KindString && e.Value.Text() != "" {
			out[i].Value = StringValue(maskedValue)
		}
	}
	return out
}
