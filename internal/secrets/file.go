// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// filePerm keeps populated secrets files private to their owner.
const filePerm os.FileMode = 0o600

// ReadFile decodes the secrets file at path. The format follows the extension.
func ReadFile(path string) (Set, error) {
	path = filepath.Clean(path)
	f, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- secrets file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	set, err := Decode(f, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// LoadFile reads and converts the secrets file at path without any
// environment overlay.
func LoadFile(path string) (Secrets, error) {
	set, err := ReadFile(path)
	if err != nil {
		return Secrets{}, err
	}
	s, err := FromSet(set)
	if err != nil {
		return Secrets{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteFile encodes set in the format implied by path and replaces the file
// atomically. The set is fully encoded before anything touches the disk.
func WriteFile(ctx context.Context, path string, set Set, opts RenderOptions) error {
	path = filepath.Clean(path)
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(f, &buf, set, opts); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return writeAtomic(ctx, path, buf.Bytes())
}
