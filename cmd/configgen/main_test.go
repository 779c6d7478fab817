// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ManuGH/devsecrets/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeyDoc(t *testing.T) {
	reg, err := secrets.GetRegistry()
	require.NoError(t, err)

	doc := buildKeyDoc(reg.Keys())
	assert.True(t, strings.HasPrefix(doc, docBeginMarker))
	assert.True(t, strings.HasSuffix(doc, docEndMarker))
	assert.Contains(t, doc, "| `SECRET_DEVICE` (alias `SECRET_CLIENT`) | `device` (alias `client`) | string | no | no | `MyDeviceName` |")
	assert.Contains(t, doc, "| `SECRET_MQTT_PORT` | `mqtt.port` | integer | yes | no | `1883` |")
	assert.Contains(t, doc, "| `SECRET_WIFI_PASS` | `wifi.password` | string | yes | yes |")
}

func TestReplaceGeneratedSection(t *testing.T) {
	generated := docBeginMarker + "\nnew\n" + docEndMarker

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "replaces existing section",
			content: "intro\n" + docBeginMarker + "\nold\n" + docEndMarker + "\noutro\n",
			want:    "intro\n" + generated + "\noutro\n",
		},
		{
			name:    "appends when markers are missing",
			content: "intro\n\n",
			want:    "intro\n\n" + generated + "\n",
		},
		{
			name:    "creates a document",
			content: "",
			want:    "# Device secrets\n\n" + generated + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replaceGeneratedSection(tt.content, generated))
		})
	}
}

func TestRun_WritesExamplesThatLoad(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, run(root, false))

	for _, f := range secrets.Formats() {
		path := filepath.Join(root, examplePathPrefix+f.Extension())
		got, err := secrets.LoadFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, secrets.Example(), got, path)
	}

	doc, err := os.ReadFile(filepath.Join(root, keyDocPath))
	require.NoError(t, err)
	assert.Contains(t, string(doc), docBeginMarker)
}

func TestRun_Check(t *testing.T) {
	root := t.TempDir()

	err := run(root, true)
	require.ErrorIs(t, err, errStale)

	require.NoError(t, run(root, false))
	require.NoError(t, run(root, true))

	path := filepath.Join(root, examplePathPrefix+".env")
	require.NoError(t, os.WriteFile(path, []byte("SECRET_WIFI_SSID=edited\n"), 0o600))
	err = run(root, true)
	require.ErrorIs(t, err, errStale)
	assert.Contains(t, err.Error(), "secrets.example.env")
}

func TestRun_KeepsHandWrittenDoc(t *testing.T) {
	root := t.TempDir()
	docPath := filepath.Join(root, keyDocPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(docPath), 0o750))
	require.NoError(t, os.WriteFile(docPath, []byte("# Secrets\n\nHand-written intro.\n"), 0o600))

	require.NoError(t, run(root, false))

	doc, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "# Secrets\n\nHand-written intro.\n\n"+docBeginMarker))
}

func TestRun_GeneratedFilesArePublic(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	root := t.TempDir()
	docPath := filepath.Join(root, keyDocPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(docPath), 0o750))
	require.NoError(t, os.WriteFile(docPath, []byte("# Secrets\n"), 0o600))

	require.NoError(t, run(root, false))

	paths := []string{docPath}
	for _, f := range secrets.Formats() {
		paths = append(paths, filepath.Join(root, examplePathPrefix+f.Extension()))
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Equal(t, publicPerm, info.Mode().Perm(), path)
	}
}
