package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	wantLayouts, err := expandPath(defaultLayoutsDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLayoutsDir) returned error: %v", err)
	}
	if cfg.LayoutsDir != wantLayouts {
		t.Fatalf("LayoutsDir = %q, want %q", cfg.LayoutsDir, wantLayouts)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.Renderer.Command != defaultRenderer {
		t.Fatalf("Renderer.Command = %q, want %q", cfg.Renderer.Command, defaultRenderer)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
layouts_dir = "  ~/overlays  "
log_file = "~/logs/overlay.log"
log_level = " DEBUG "

[renderer]
command = " webview-shell "
args = ["--transparent", "--no-sandbox"]
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LayoutsDir != filepath.Join(home, "overlays") {
		t.Fatalf("LayoutsDir = %q, want %q", cfg.LayoutsDir, filepath.Join(home, "overlays"))
	}
	if cfg.LogDir() != filepath.Join(home, "logs") {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir(), filepath.Join(home, "logs"))
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Renderer.Command != "webview-shell" {
		t.Fatalf("Renderer.Command = %q, want webview-shell", cfg.Renderer.Command)
	}
	if len(cfg.Renderer.Args) != 2 || cfg.Renderer.Args[0] != "--transparent" {
		t.Fatalf("Renderer.Args = %#v, want two args", cfg.Renderer.Args)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
layouts_dir = "   "
log_level = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	wantLayouts, err := expandPath(defaultLayoutsDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLayoutsDir) returned error: %v", err)
	}
	if cfg.LayoutsDir != wantLayouts {
		t.Fatalf("LayoutsDir = %q, want %q", cfg.LayoutsDir, wantLayouts)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
}

func TestLoad_UnknownLogLevelFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_level = "verbose"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("Load error = %v, want log_level error", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`layouts_dir = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogDir_DefaultsWhenLogFileEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogDir()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/xiv-overlay")) {
		t.Fatalf("LogDir = %q, want it to end with /xiv-overlay", got)
	}
}
