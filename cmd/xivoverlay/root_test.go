package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/five82/xivoverlay/internal/layout"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("layouts_dir = %q\nlog_file = %q\n",
		filepath.Join(dir, "layouts"), filepath.Join(dir, "xivoverlay.log"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func seedLayouts(t *testing.T, dir string, records ...layout.Record) {
	t.Helper()
	store, err := layout.NewStore(filepath.Join(dir, "layouts"), nil)
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, store.Save(r))
	}
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range newRootCmd().Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"list", "serve"} {
		assert.True(t, found[name], "expected subcommand %q", name)
	}
}

func TestRootCommand_Version(t *testing.T) {
	assert.NotEmpty(t, newRootCmd().Version)
}

func TestList_PrintsRecordsAsYAML(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	seedLayouts(t, dir,
		layout.Record{Name: "Timers", URL: "http://localhost/timers", Width: 200, Height: 100},
		layout.Record{Name: "DPS Meter", URL: "http://localhost/dps", Width: 400, Height: 300, Active: true},
	)

	out, err := runCmd(t, "list", "--config", cfg)
	require.NoError(t, err)

	var records []layout.Record
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "DPS Meter", records[0].Name)
	assert.Equal(t, "Timers", records[1].Name)
}

func TestList_ActiveOnlyAsJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	seedLayouts(t, dir,
		layout.Record{Name: "Timers", URL: "http://localhost/timers", Width: 200, Height: 100},
		layout.Record{Name: "DPS Meter", URL: "http://localhost/dps", Width: 400, Height: 300, Active: true},
	)

	out, err := runCmd(t, "list", "--config", cfg, "--format", "json", "--active")
	require.NoError(t, err)

	var records []layout.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "DPS Meter", records[0].Name)
}

func TestList_EmptyDirectoryPrintsEmptyList(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, "list", "--config", writeConfig(t, dir), "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestList_RejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := runCmd(t, "list", "--config", writeConfig(t, dir), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestServe_RejectsUnknownTransport(t *testing.T) {
	_, err := runCmd(t, "serve", "--transport", "carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport")
}
