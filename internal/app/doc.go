// Package app is the composition root of xivoverlay.
//
// # Startup
//
//  1. Load config.toml (missing file means defaults, bad TOML is fatal)
//  2. Open the log file and install it as the slog default
//  3. Create the layouts directory (fatal on failure)
//  4. Start the display thread and pick a display: renderer processes, or the
//     in-memory headless display with --headless
//  5. Wire controller, state store and dispatcher, then start the dispatcher
//  6. Watch the layouts directory and queue ResumeActive
//
// Run additionally starts the TUI and blocks until it exits. The serve
// command uses Start directly and blocks on its MCP transport instead.
//
//	┌──────────────┐   Submit    ┌────────────┐   Open/Close   ┌───────────┐
//	│ TUI / MCP    │────────────>│ Dispatcher │───────────────>│ Controller│
//	│ Watcher      │             │  (1 goro)  │                └─────┬─────┘
//	└──────▲───────┘             └─────┬──────┘                      │ Call
//	       │ Snapshot                  │ View                  ┌─────▼─────┐
//	       └──────────── state.Store <─┘                       │ Display   │
//	                                                           │ thread    │
//	                                                           └───────────┘
//
// # Shutdown
//
// Runtime.Close cancels the dispatcher, which closes every window on its way
// out, then stops the display thread and closes the log. Records keep their
// active flag, so whatever was on screen comes back next time.
package app
