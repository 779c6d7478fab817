// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command configgen regenerates the checked-in secrets templates and the key
// reference in docs/SECRETS.md from the key registry.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ManuGH/devsecrets/internal/secrets"
)

const (
	keyDocPath        = "docs/SECRETS.md"
	examplePathPrefix = "secrets.example"

	// publicPerm is the mode of generated files. They hold placeholders only.
	publicPerm os.FileMode = 0o644
)

const (
	docBeginMarker = "<!-- BEGIN GENERATED SECRET KEYS -->"
	docEndMarker   = "<!-- END GENERATED SECRET KEYS -->"
)

// errStale is returned in -check mode when a generated file is out of date.
var errStale = errors.New("generated files are out of date; run configgen")

func main() {
	rootDir := flag.String("root", "", "repository root (default: working directory)")
	check := flag.Bool("check", false, "verify generated files instead of writing them")
	flag.Parse()

	root := *rootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			fail(err)
		}
		root = wd
	}

	if err := run(root, *check); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
	os.Exit(1)
}

func run(root string, check bool) error {
	registry, err := secrets.GetRegistry()
	if err != nil {
		return fmt.Errorf("get registry: %w", err)
	}

	outputs, err := renderExamples()
	if err != nil {
		return err
	}

	docPath := filepath.Join(root, keyDocPath)
	// #nosec G304 -- CLI tool, path derived from -root
	raw, err := os.ReadFile(docPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read key doc: %w", err)
	}
	outputs[keyDocPath] = []byte(replaceGeneratedSection(string(raw), buildKeyDoc(registry.Keys())))

	var stale []string
	for _, rel := range sortedKeys(outputs) {
		path := filepath.Join(root, rel)
		if check {
			// #nosec G304 -- CLI tool, path derived from -root
			current, err := os.ReadFile(path)
			if err != nil || !bytes.Equal(current, outputs[rel]) {
				stale = append(stale, rel)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(rel), err)
		}
		// #nosec G306 -- checked-in templates and docs are public
		if err := os.WriteFile(path, outputs[rel], publicPerm); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		// WriteFile keeps the mode of an existing file.
		if err := os.Chmod(path, publicPerm); err != nil {
			return fmt.Errorf("chmod %s: %w", rel, err)
		}
	}
	if len(stale) > 0 {
		return fmt.Errorf("%w: %s", errStale, strings.Join(stale, ", "))
	}
	return nil
}

// renderExamples encodes the placeholder template once per format, keyed by
// repository-relative path.
func renderExamples() (map[string][]byte, error) {
	out := make(map[string][]byte)
	for _, f := range secrets.Formats() {
		var buf bytes.Buffer
		if err := secrets.Encode(f, &buf, secrets.ExampleSet(), secrets.RenderOptions{Comments: true}); err != nil {
			return nil, fmt.Errorf("render %s example: %w", f, err)
		}
		out[examplePathPrefix+f.Extension()] = buf.Bytes()
	}
	return out, nil
}

func buildKeyDoc(keys []secrets.KeyInfo) string {
	var b strings.Builder
	b.WriteString(docBeginMarker)
	b.WriteString("\n## Keys (Generated)\n\n")
	b.WriteString("This section is generated from `internal/secrets/registry.go`. Do not edit by hand.\n\n")
	b.WriteString("| Key | YAML path | Type | Required | Sensitive | Example | Description |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, k := range keys {
		name := fmt.Sprintf("`%s`", k.Name)
		for _, alias := range k.Aliases {
			name += fmt.Sprintf(" (alias `%s`)", alias)
		}
		path := fmt.Sprintf("`%s`", k.Path)
		for _, alias := range k.PathAliases {
			path += fmt.Sprintf(" (alias `%s`)", alias)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` | %s |\n",
			name, path, k.Kind, yesNo(!k.Optional), yesNo(k.Sensitive), k.Example,
			strings.ReplaceAll(k.Description, "|", `\|`))
	}
	b.WriteString("\n")
	b.WriteString(docEndMarker)
	return b.String()
}

func replaceGeneratedSection(content string, generated string) string {
	start := strings.Index(content, docBeginMarker)
	end := strings.Index(content, docEndMarker)
	if start == -1 || end == -1 || end < start {
		if content == "" {
			return "# Device secrets\n\n" + generated + "\n"
		}
		return strings.TrimRight(content, "\n") + "\n\n" + generated + "\n"
	}
	end += len(docEndMarker)
	return content[:start] + generated + content[end:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
