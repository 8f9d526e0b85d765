// Package state holds what the management UI is allowed to see.
//
// # Overview
//
// The dispatcher is the only writer. It publishes through the View methods
// (ShowOverlays, ShowDetail, ClearDetail, Alert, Notice), and the UI reads
// copies through Snapshot. Nothing in a Snapshot aliases the store, so a
// reader can keep one across frames.
//
//	Producer (Dispatcher):         Consumer (UI, MCP):
//	┌────────────────────┐        ┌────────────────────┐
//	│ action handled     │        │ <-store.Updates()  │
//	│      ↓             │        │      ↓             │
//	│ store.ShowOverlays │───────→│ store.Snapshot()   │
//	│ store.Alert        │ (mutex)│      ↓             │
//	│      ↓             │        │ render             │
//	│ next action        │        │                    │
//	└────────────────────┘        └────────────────────┘
//
// # Updates
//
// Updates carries a coalescing signal: one buffered slot, dropped when full.
// Consumers must treat it as "something changed" and re-read the snapshot.
//
// # Alerts
//
// Alerts accumulate with a sequence number so the UI can tell a new alert
// from one it has already dismissed. Only the newest MaxAlerts are kept.
//
// # Zero Value
//
// A zero Store is ready to use and stamps updates with the real clock.
package state
