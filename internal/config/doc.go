// Package config loads the xivoverlay application configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/xiv-overlay/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/xiv-overlay/config.toml
//   - Layouts directory: ~/.config/xiv-overlay/layouts
//   - Log file: ~/.local/state/xiv-overlay/xivoverlay.log
//   - Log level: info
//   - Renderer command: xivoverlay-webview
//
// # TOML Format
//
//	layouts_dir = "~/.config/xiv-overlay/layouts"
//	log_file = "~/.local/state/xiv-overlay/xivoverlay.log"
//	log_level = "info"
//
//	[renderer]
//	command = "xivoverlay-webview"
//	args = ["--transparent"]
//
// Every field is optional. Tilde expansion is performed on paths.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and unknown log levels
//
// Missing config files are NOT an error. Creating the layouts directory is
// the job of the layout store, not of this package.
package config
