// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ManuGH/devsecrets/internal/log"
	"github.com/rs/zerolog"
)

const (
	sourceFile = "file"
	sourceEnv  = "environment"
)

// Loader handles secrets loading with precedence ENV > File.
type Loader struct {
	path            string
	lookupEnv       func(string) (string, bool)
	environ         func() []string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys

	// Strict turns unknown SECRET_* environment variables into an error
	// instead of a warning.
	Strict bool
}

// NewLoader creates a loader for the secrets file at path. An empty path
// loads from the environment only.
func NewLoader(path string) *Loader {
	return &Loader{
		path:            path,
		lookupEnv:       os.LookupEnv,
		environ:         os.Environ,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Load reads the file (if any), overlays SECRET_* environment variables and
// converts the result. An environment variable that is set but empty is an
// explicit empty value, not a fallback to the file.
func (l *Loader) Load() (Secrets, error) {
	set, err := l.LoadSet()
	if err != nil {
		return Secrets{}, err
	}
	s, err := FromSet(set)
	if err != nil {
		return Secrets{}, fmt.Errorf("secrets validation failed: %w", err)
	}
	return s, nil
}

// LoadSet returns the merged entries without converting them.
func (l *Loader) LoadSet() (Set, error) {
	logger := log.WithComponent("secrets")

	var set Set
	if l.path != "" {
		fileSet, err := ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("load secrets file: %w", err)
		}
		set = fileSet
		for _, e := range set {
			logSource(logger, e.Key, sourceFile)
		}
	}

	if err := l.ValidateEnvUsage(); err != nil {
		return nil, err
	}

	envSet, err := l.envSet(logger)
	if err != nil {
		return nil, err
	}
	return overlay(set, envSet), nil
}

func (l *Loader) envLookup(key string) (string, bool) {
	l.ConsumedEnvKeys[key] = struct{}{}
	return l.lookupEnv(key)
}

func (l *Loader) envSet(logger zerolog.Logger) (Set, error) {
	reg := mustRegistry()
	var set Set
	for _, name := range reg.Names() {
		raw, ok := l.envLookup(name)
		if !ok {
			continue
		}
		info, _ := reg.Lookup(name)
		v, err := parseEnvValue(info, name, raw)
		if err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
		logSource(logger, name, sourceEnv)
		set = append(set, Entry{Key: name, Value: v})
	}
	return set, nil
}

// overlay replaces every base entry whose canonical key appears in top.
// Base order is kept; new keys are appended.
func overlay(base, top Set) Set {
	if len(top) == 0 {
		return base
	}
	reg := mustRegistry()
	canonical := func(key string) string {
		if info, ok := reg.Lookup(key); ok {
			return info.Name
		}
		return key
	}

	replaced := make(map[string]struct{}, len(top))
	for _, e := range top {
		replaced[canonical(e.Key)] = struct{}{}
	}

	out := make(Set, 0, len(base)+len(top))
	for _, e := range base {
		if _, ok := replaced[canonical(e.Key)]; !ok {
			out = append(out, e)
		}
	}
	return append(out, top...)
}

func logSource(logger zerolog.Logger, key, source string) {
	ev := logger.Debug().
		Str(log.FieldKey, key).
		Str(log.FieldSource, source)
	if info, ok := mustRegistry().Lookup(key); ok && info.Sensitive {
		ev = ev.Bool(log.FieldSensitive, true)
	}
	ev.Msg("using secret value")
}

// ValidateEnvUsage detects unknown SECRET_* environment variables (typos).
// They are logged as warnings, or rejected when the loader is strict.
func (l *Loader) ValidateEnvUsage() error {
	reg := mustRegistry()

	var unknown []string
	for _, pair := range l.environ() {
		key, _, _ := strings.Cut(pair, "=")
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		if _, ok := reg.Lookup(key); ok {
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Strings(unknown)
	if l.Strict {
		return fmt.Errorf("%w: environment %s", ErrUnknownKey, strings.Join(unknown, ", "))
	}
	logger := log.WithComponent("secrets")
	for _, key := range unknown {
		logger.Warn().
			Str(log.FieldKey, key).
			Msg("unknown SECRET_ env key detected (typo?)")
	}
	return nil
}
