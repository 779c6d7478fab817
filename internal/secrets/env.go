// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// envLoadOptions keeps values verbatim: '#' and ';' inside a value are data,
// and a trailing backslash does not join lines. Shadows keep identical
// values so every repeated assignment is reported.
var envLoadOptions = ini.LoadOptions{
	AllowShadows:               true,
	AllowDuplicateShadowValues: true,
	IgnoreInlineComment:        true,
	IgnoreContinuation:         true,
}

// ParseEnv reads a dotenv file of SECRET_* assignments.
//
// Values may be bare or wrapped in double quotes, single quotes or backticks.
// Lines may carry a leading "export". Names without the SECRET_ prefix are
// ignored so a secrets file can share a .env with other settings.
func ParseEnv(r io.Reader) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	src, assigned := stripExport(data)
	f, err := ini.LoadSources(envLoadOptions, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(f.Sections()) > 1 {
		return nil, fmt.Errorf("%w: sections are not allowed in env files (found [%s])",
			ErrSyntax, f.Sections()[1].Name())
	}

	reg := mustRegistry()
	var set Set
	for _, k := range f.Section(ini.DefaultSection).Keys() {
		name := k.Name()
		if !strings.HasPrefix(name, KeyPrefix) {
			continue
		}
		info, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, name)
		}
		// ValueWithShadows omits empty values, so blank repeats only show up
		// in the line count.
		if len(k.ValueWithShadows()) > 1 || assigned[name] > 1 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, name)
		}
		v, err := parseEnvValue(info, name, k.Value())
		if err != nil {
			return nil, err
		}
		set = append(set, Entry{Key: name, Value: v})
	}
	return set, nil
}

// parseEnvValue types raw text by the registry kind of the key it was found under.
func parseEnvValue(info KeyInfo, name, raw string) (Value, error) {
	if info.Kind != KindInt {
		return StringValue(raw), nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("%w: %s=%s", ErrOutOfRange, name, raw)
		}
		return Value{}, fmt.Errorf("%w: %s must be an integer, got %q", ErrTypeMismatch, name, raw)
	}
	return IntValue(n), nil
}

// stripExport drops leading "export" keywords and counts how often each
// SECRET_ name is assigned.
func stripExport(data []byte) ([]byte, map[string]int) {
	var out bytes.Buffer
	assigned := make(map[string]int)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), len(data)+1)
	for sc.Scan() {
		line := sc.Bytes()
		trimmed := bytes.TrimLeft(line, " \t")
		if rest, ok := bytes.CutPrefix(trimmed, []byte("export ")); ok {
			line = rest
			trimmed = bytes.TrimLeft(rest, " \t")
		}
		if i := bytes.IndexAny(trimmed, "=:"); i > 0 {
			if name := string(bytes.TrimSpace(trimmed[:i])); strings.HasPrefix(name, KeyPrefix) {
				assigned[name]++
			}
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes(), assigned
}

// RenderEnv writes set as a dotenv file in set order.
func RenderEnv(w io.Writer, set Set, opts RenderOptions) error {
	reg := mustRegistry()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", strings.TrimPrefix(headerBanner, "// "))
	for _, e := range set {
		if !isIdentifier(e.Key) {
			return fmt.Errorf("%w: %q is not a valid variable name", ErrSyntax, e.Key)
		}
		lit, err := envLiteral(e)
		if err != nil {
			return err
		}
		if opts.Comments {
			if info, ok := reg.Lookup(e.Key); ok && info.Description != "" {
				fmt.Fprintf(bw, "\n# %s\n", info.Description)
			}
		}
		fmt.Fprintf(bw, "%s=%s\n", e.Key, lit)
	}
	return bw.Flush()
}

// envLiteral picks the first quoting style the value does not contain.
// Backticks are matched against the last backtick on the line, so they
// can carry any single-line text.
func envLiteral(e Entry) (string, error) {
	if e.Value.Kind() == KindInt {
		return strconv.FormatInt(e.Value.Int(), 10), nil
	}
	s := e.Value.Text()
	switch {
	case strings.ContainsAny(s, "\r\n"):
		return "", fmt.Errorf("%w: %s contains a line break", ErrInvalidLiteral, e.Key)
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, nil
	case !strings.Contains(s, `'`):
		return `'` + s + `'`, nil
	default:
		return "`" + s + "`", nil
	}
}
