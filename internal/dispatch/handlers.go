package dispatch

import (
	"errors"
	"fmt"

	"github.com/five82/xivoverlay/internal/layout"
)

func (d *Dispatcher) loadList() error {
	records, err := d.store.List()
	if err != nil {
		return fmt.Errorf("list overlays: %w", err)
	}
	open := make(map[string]bool)
	for _, name := range d.windows.OpenNames() {
		open[name] = true
	}
	d.view.ShowOverlays(records, open)
	return nil
}

// refresh republishes the list and, if something is selected, its detail.
func (d *Dispatcher) refresh() {
	if err := d.loadList(); err != nil {
		d.report(LoadOverlaysList{}, err)
	}
	if d.selected == "" {
		return
	}
	r, err := d.store.FindByName(d.selected)
	switch {
	case err == nil:
		d.view.ShowDetail(r, false)
	case errors.Is(err, layout.ErrNotFound):
		d.selected = ""
		d.view.ClearDetail()
	default:
		d.logger.Warn("refresh detail", "overlay", d.selected, "error", err)
	}
}

func (d *Dispatcher) selectOverlay(name string) error {
	r, err := d.store.FindByName(name)
	if err != nil {
		if errors.Is(err, layout.ErrNotFound) {
			d.selected = ""
			d.view.ClearDetail()
		}
		return err
	}
	d.selected = r.Name
	d.view.ShowDetail(r, false)
	return nil
}

func (d *Dispatcher) toggle(a ToggleOverlay) error {
	name := a.Record.Name
	if a.Flip {
		a.Active = !d.windows.IsOpen(name)
	}
	current, err := d.store.FindByName(name)
	if err != nil {
		if errors.Is(err, layout.ErrNotFound) {
			if !a.Active {
				d.windows.Close(name)
				d.refresh()
				return nil
			}
			return fmt.Errorf("save the overlay before showing it: %w", err)
		}
		return err
	}

	if a.Active {
		if !d.windows.IsOpen(name) {
			if err := d.windows.Open(current); err != nil {
				if current.Active {
					current.Active = false
					if serr := d.store.Save(current); serr != nil {
						d.logger.Warn("persist inactive overlay", "overlay", name, "error", serr)
					}
				}
				d.refresh()
				return err
			}
		}
	} else {
		d.windows.Close(name)
	}

	current.Active = a.Active
	if err := d.store.Save(current); err != nil {
		if a.Active {
			// The file still says inactive; do not leave a window the store
			// does not know about.
			d.windows.Close(name)
		}
		d.refresh()
		return fmt.Errorf("save overlay %q: %w", name, err)
	}
	d.logger.Info("overlay toggled", "overlay", name, "active", a.Active)
	d.refresh()
	return nil
}

func (d *Dispatcher) save(a SaveOverlay) error {
	base := a.Record
	var prev layout.Record
	existing := false
	if base.Name != "" {
		p, err := d.store.FindByName(base.Name)
		switch {
		case err == nil:
			prev, existing = p, true
			base = p
		case !errors.Is(err, layout.ErrNotFound):
			return err
		}
	}
	if !existing {
		base.Active = false
	}

	next, err := a.Edits.Apply(base)
	if err != nil {
		return err
	}
	return d.write(next, prev, existing)
}

// patch merges the set fields of a.Patch into the record called a.Name, or
// into a default record when there is none.
func (d *Dispatcher) patch(a PatchOverlay) error {
	base, err := d.store.FindByName(a.Name)
	existing := err == nil
	switch {
	case errors.Is(err, layout.ErrNotFound):
		base = layout.Default()
		base.Name = a.Name
	case err != nil:
		return err
	}

	next, err := a.Patch.Edits(base).Apply(base)
	if err != nil {
		return err
	}
	var prev layout.Record
	if existing {
		prev = base
	} else {
		next.Active = false
	}
	return d.write(next, prev, existing)
}

// write persists next over prev, or as a new record, and brings an open
// window in line with it.
func (d *Dispatcher) write(next, prev layout.Record, existing bool) error {
	if err := d.store.CheckAvailable(next.Name, prev.Name); err != nil {
		return err
	}
	prevFile := d.store.FileOf(prev.Name)
	if err := d.store.Save(next); err != nil {
		return fmt.Errorf("save overlay %q: %w", next.Name, err)
	}

	var reconcileErr error
	if existing {
		if err := d.windows.Reconcile(next, prev); err != nil {
			reconcileErr = err
			if next.Active {
				next.Active = false
				if serr := d.store.Save(next); serr != nil {
					d.logger.Warn("persist inactive overlay", "overlay", next.Name, "error", serr)
				}
			}
		}
		if prevFile != d.store.FileOf(next.Name) {
			if err := d.store.Delete(prev.Name); err != nil {
				d.logger.Warn("remove renamed layout file", "overlay", prev.Name, "file", prevFile, "error", err)
			}
		}
	}

	d.logger.Info("overlay saved", "overlay", next.Name, "previous", prev.Name, "new", !existing)
	d.selected = next.Name
	d.refresh()
	return reconcileErr
}

func (d *Dispatcher) delete(r layout.Record) error {
	d.windows.Close(r.Name)
	// Listing first picks up the file the record actually lives in.
	if _, err := d.store.FindByName(r.Name); err != nil && !errors.Is(err, layout.ErrNotFound) {
		d.logger.Warn("look up deleted overlay", "overlay", r.Name, "error", err)
	}
	err := d.store.Delete(r.Name)
	if d.selected == r.Name {
		d.selected = ""
		d.view.ClearDetail()
	}
	d.refresh()
	if err != nil {
		return fmt.Errorf("delete overlay %q: %w", r.Name, err)
	}
	d.logger.Info("overlay deleted", "overlay", r.Name)
	return nil
}

func (d *Dispatcher) newOverlay() {
	d.selected = ""
	d.view.ShowDetail(layout.Default(), true)
}

func (d *Dispatcher) resumeActive() error {
	records, err := d.store.List()
	if err != nil {
		return fmt.Errorf("list overlays: %w", err)
	}

	var errs []error
	for _, r := range records {
		if !r.Active || d.windows.IsOpen(r.Name) {
			continue
		}
		if err := d.windows.Open(r); err != nil {
			errs = append(errs, err)
			r.Active = false
			if serr := d.store.Save(r); serr != nil {
				errs = append(errs, fmt.Errorf("save overlay %q: %w", r.Name, serr))
			}
			continue
		}
		d.logger.Info("overlay resumed", "overlay", r.Name)
	}
	d.refresh()
	return errors.Join(errs...)
}

func (d *Dispatcher) windowClosed(a WindowClosed) error {
	if !d.windows.Forget(a.Name, a.WindowID) {
		d.logger.Debug("stale window close ignored", "overlay", a.Name, "window", a.WindowID)
		return nil
	}

	r, err := d.store.FindByName(a.Name)
	switch {
	case err == nil && r.Active:
		r.Active = false
		if err := d.store.Save(r); err != nil {
			d.refresh()
			return fmt.Errorf("save overlay %q: %w", r.Name, err)
		}
	case err != nil && !errors.Is(err, layout.ErrNotFound):
		d.logger.Warn("look up closed overlay", "overlay", a.Name, "error", err)
	}
	d.view.Notice(fmt.Sprintf("overlay %q was closed", a.Name))
	d.refresh()
	return nil
}
