// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format names an on-disk secrets encoding.
type Format string

const (
	FormatHeader Format = "header"
	FormatEnv    Format = "env"
	FormatYAML   Format = "yaml"
)

// Formats lists the supported encodings.
func Formats() []Format {
	return []Format{FormatHeader, FormatEnv, FormatYAML}
}

// ParseFormat resolves a format name. "h" and "yml" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "header", "h":
		return FormatHeader, nil
	case "env", "dotenv":
		return FormatEnv, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".hpp":
		return FormatHeader, nil
	case ".env":
		return FormatEnv, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Extension returns the canonical file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatHeader:
		return ".h"
	case FormatEnv:
		return ".env"
	case FormatYAML:
		return ".yaml"
	default:
		return ""
	}
}

// Decode reads a Set in format f.
func Decode(f Format, r io.Reader) (Set, error) {
	switch f {
	case FormatHeader:
		return ParseHeader(r)
	case FormatEnv:
		return ParseEnv(r)
	case FormatYAML:
		return ParseYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// Encode writes set in format f.
func Encode(f Format, w io.Writer, set Set, opts RenderOptions) error {
	switch f {
	case FormatHeader:
		return RenderHeader(w, set, opts)
	case FormatEnv:
		return RenderEnv(w, set, opts)
	case FormatYAML:
		return RenderYAML(w, set, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}
