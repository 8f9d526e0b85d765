// Package dispatch serialises every change to overlays.
//
// Producers (the TUI, the MCP server, window watchers) build Action values and
// hand them to Submit or Do. A single goroutine, Run, applies them in order
// and finishes each one, including any display work, before starting the
// next. That ordering is the only thing keeping a toggle and a delete of the
// same overlay from interleaving, so the store and the window table must not
// be touched from anywhere else.
//
// Errors stay inside: a missing record becomes a notice on the View, anything
// else is logged and raised as an alert. Do additionally returns the error to
// its caller.
package dispatch
