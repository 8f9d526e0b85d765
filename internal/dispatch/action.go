package dispatch

import (
	"fmt"
	"strings"

	"github.com/five82/xivoverlay/internal/layout"
)

// Action is one request to the dispatcher. The set of actions is closed.
type Action interface {
	isAction()
}

// LoadOverlaysList re-reads the store and publishes the list.
type LoadOverlaysList struct{}

// SelectOverlay publishes the persisted record called Name as the detail.
type SelectOverlay struct {
	Name string
}

// ToggleOverlay shows or hides Record's window and persists the new state.
// With Flip set, Active is ignored and the window's state at the time the
// action is applied is inverted.
type ToggleOverlay struct {
	Active bool
	Flip   bool
	Record layout.Record
}

// SaveOverlay validates Edits against Record and writes the result. Record is
// the overlay being edited; an unnamed or unknown record is saved as new.
type SaveOverlay struct {
	Record layout.Record
	Edits  layout.Edits
}

// PatchOverlay updates the record called Name with the fields set in Patch,
// creating it from the defaults when it does not exist. The merge happens
// against the record as stored when the action is applied.
type PatchOverlay struct {
	Name  string
	Patch layout.Patch
}

// DeleteOverlay closes Record's window and removes its file.
type DeleteOverlay struct {
	Record layout.Record
}

// NewOverlay publishes an unsaved default record as the detail.
type NewOverlay struct{}

// ResumeActive opens every record marked active. Submitted once at startup.
type ResumeActive struct{}

// WindowClosed reports that the window WindowID registered under Name went
// away without being asked to.
type WindowClosed struct {
	Name     string
	WindowID string
}

func (LoadOverlaysList) isAction() {}
func (SelectOverlay) isAction()    {}
func (ToggleOverlay) isAction()    {}
func (SaveOverlay) isAction()      {}
func (PatchOverlay) isAction()     {}
func (DeleteOverlay) isAction()    {}
func (NewOverlay) isAction()       {}
func (ResumeActive) isAction()     {}
func (WindowClosed) isAction()     {}

// Name returns a short label for logs, e.g. "toggle_overlay".
func Name(a Action) string {
	switch a.(type) {
	case LoadOverlaysList:
		return "load_overlays_list"
	case SelectOverlay:
		return "select_overlay"
	case ToggleOverlay:
		return "toggle_overlay"
	case SaveOverlay:
		return "save_overlay"
	case PatchOverlay:
		return "patch_overlay"
	case DeleteOverlay:
		return "delete_overlay"
	case NewOverlay:
		return "new_overlay"
	case ResumeActive:
		return "resume_active"
	case WindowClosed:
		return "window_closed"
	default:
		return strings.ToLower(fmt.Sprintf("%T", a))
	}
}
