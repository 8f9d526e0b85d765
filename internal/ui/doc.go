// Package ui is the Bubble Tea management console for overlays.
//
// The model never touches layout files or windows itself. Every user intent
// becomes a dispatch.Action handed to a Submitter, and the model redraws from
// the state.Store snapshots the dispatcher publishes. A command blocks on
// Store.Updates so changes made by the file watcher or by a window closing
// show up without polling.
//
// Files:
//
//   - app.go: Model, key routing, snapshot handling, Run
//   - list.go, detail.go: the overlay list and the detail pane
//   - form.go: the overlay editor and its pending-save state
//   - logs.go: the log tail view
//   - header.go, help.go, box.go: chrome, modals and boxed panes
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// Saving is asynchronous. The editor stays open with a "Saving..." status
// until either the saved record is published as the detail, which closes
// it, or a newer error alert arrives, which re-enables it.
package ui
