// Package overlay owns the table of live overlay windows.
//
// A window is registered under its record name only after it has been built,
// loaded and shown; a failed Open leaves nothing behind. Every display call
// goes through a display.Thread. Attribute changes are never applied to a live
// window: Reconcile closes it and opens a new one.
//
// Each live window carries a random id. When a window disappears on its own
// the OnClosed callback receives that id, and Forget only drops the entry if
// the id still matches, so a late event cannot remove a newer window.
package overlay
