package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings xivoverlay reads at startup.
type Config struct {
	LayoutsDir string
	LogFile    string
	LogLevel   string
	Renderer   Renderer
}

// Renderer describes the helper process that hosts one overlay window.
type Renderer struct {
	Command string
	Args    []string
}

const (
	defaultConfigPath = "~/.config/xiv-overlay/config.toml"
	defaultLayoutsDir = "~/.config/xiv-overlay/layouts"
	defaultLogFile    = "~/.local/state/xiv-overlay/xivoverlay.log"
	defaultLogLevel   = "info"
	defaultRenderer   = "xivoverlay-webview"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Load locates and parses the xivoverlay config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LayoutsDir string `toml:"layouts_dir"`
		LogFile    string `toml:"log_file"`
		LogLevel   string `toml:"log_level"`
		Renderer   struct {
			Command string   `toml:"command"`
			Args    []string `toml:"args"`
		} `toml:"renderer"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if dir := strings.TrimSpace(raw.LayoutsDir); dir != "" {
		cfg.LayoutsDir = mustExpand(dir)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		if !validLogLevels[level] {
			return Config{}, fmt.Errorf("parse config: unknown log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = level
	}
	if command := strings.TrimSpace(raw.Renderer.Command); command != "" {
		cfg.Renderer.Command = command
	}
	if len(raw.Renderer.Args) > 0 {
		cfg.Renderer.Args = append([]string(nil), raw.Renderer.Args...)
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		LayoutsDir: mustExpand(defaultLayoutsDir),
		LogFile:    mustExpand(defaultLogFile),
		LogLevel:   defaultLogLevel,
		Renderer:   Renderer{Command: defaultRenderer},
	}
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
