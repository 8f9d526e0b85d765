package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/five82/xivoverlay/internal/display"
	"github.com/five82/xivoverlay/internal/layout"
)

// ErrAlreadyOpen is returned by Open when a window with the name is registered.
var ErrAlreadyOpen = errors.New("overlay already open")

// WindowCreationError reports which step of building a window failed.
type WindowCreationError struct {
	Name  string
	Stage string
	Err   error
}

func (e *WindowCreationError) Error() string {
	return fmt.Sprintf("open overlay %q: %s: %v", e.Name, e.Stage, e.Err)
}

func (e *WindowCreationError) Unwrap() error { return e.Err }

type liveWindow struct {
	id      string
	record  layout.Record
	win     display.Window
	closing atomic.Bool
	once    sync.Once
}

// Controller keeps the table of live overlay windows, keyed by record name.
// Its methods are meant to be called from a single goroutine; only the
// closure callback fires from elsewhere.
type Controller struct {
	display display.Display
	thread  *display.Thread
	logger  *slog.Logger

	mu       sync.Mutex
	windows  map[string]*liveWindow
	onClosed func(name, windowID string)
}

// NewController builds a controller that creates windows on d, always from th.
func NewController(d display.Display, th *display.Thread, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		display: d,
		thread:  th,
		logger:  logger,
		windows: make(map[string]*liveWindow),
	}
}

// SetOnClosed registers fn to be told when a window goes away without the
// controller closing it. fn runs on a background goroutine.
func (c *Controller) SetOnClosed(fn func(name, windowID string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClosed = fn
}

// Open builds, loads and shows a window for r and registers it. On failure
// the partial window is destroyed and the table is left as it was.
func (c *Controller) Open(r layout.Record) error {
	if c.IsOpen(r.Name) {
		return fmt.Errorf("%q: %w", r.Name, ErrAlreadyOpen)
	}

	spec := display.WindowSpec{
		Title:     r.Name,
		X:         r.X,
		Y:         r.Y,
		Width:     r.Width,
		Height:    r.Height,
		Decorated: r.Decorated,
		KeepAbove: true,
	}

	var win display.Window
	stage := "create"
	err := c.thread.Call(func() error {
		w, err := c.display.CreateWindow(spec)
		if err != nil {
			return err
		}
		win = w

		stage = "load"
		if err := w.Load(r.URL); err != nil {
			return err
		}
		stage = "show"
		if err := w.Show(); err != nil {
			return err
		}
		if r.Clickthrough {
			stage = "input_passthrough"
			if err := w.SetInputPassthrough(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if win != nil {
			if cerr := c.thread.Call(win.Close); cerr != nil {
				c.logger.Warn("discard partial window", "overlay", r.Name, "error", cerr)
			}
		}
		return &WindowCreationError{Name: r.Name, Stage: stage, Err: err}
	}

	lw := &liveWindow{id: uuid.NewString(), record: r, win: win}
	c.mu.Lock()
	c.windows[r.Name] = lw
	c.mu.Unlock()
	go c.watch(r.Name, lw)

	c.logger.Info("overlay opened", "overlay", r.Name, "window", lw.id, "url", r.URL,
		"clickthrough", r.Clickthrough, "decorated", r.Decorated)
	return nil
}

func (c *Controller) watch(name string, lw *liveWindow) {
	<-lw.win.Done()
	if lw.closing.Load() {
		return
	}
	c.logger.Info("overlay window closed externally", "overlay", name, "window", lw.id)
	c.mu.Lock()
	fn := c.onClosed
	c.mu.Unlock()
	if fn != nil {
		fn(name, lw.id)
	}
}

// Close removes name from the table and destroys its window. It reports
// whether a window was registered.
func (c *Controller) Close(name string) bool {
	c.mu.Lock()
	lw, ok := c.windows[name]
	delete(c.windows, name)
	c.mu.Unlock()
	if !ok {
		return false
	}
	c.destroy(name, lw)
	return true
}

func (c *Controller) destroy(name string, lw *liveWindow) {
	lw.once.Do(func() {
		lw.closing.Store(true)
		if err := c.thread.Call(lw.win.Close); err != nil {
			c.logger.Warn("close overlay window", "overlay", name, "window", lw.id, "error", err)
			return
		}
		c.logger.Info("overlay closed", "overlay", name, "window", lw.id)
	})
}

// Reconcile replaces the window open under previous.Name, if any, with a new
// one built from record.
func (c *Controller) Reconcile(record, previous layout.Record) error {
	if !c.Close(previous.Name) {
		return nil
	}
	c.logger.Debug("recreate overlay window", "overlay", record.Name, "previous", previous.Name)
	return c.Open(record)
}

// CloseAll destroys every registered window.
func (c *Controller) CloseAll() {
	c.mu.Lock()
	windows := c.windows
	c.windows = make(map[string]*liveWindow)
	c.mu.Unlock()

	for _, name := range sortedKeys(windows) {
		c.destroy(name, windows[name])
	}
}

// IsOpen reports whether a window is registered under name.
func (c *Controller) IsOpen(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.windows[name]
	return ok
}

// OpenNames returns the registered names in sorted order.
func (c *Controller) OpenNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.windows)
}

// WindowID returns the id of the window registered under name.
func (c *Controller) WindowID(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lw, ok := c.windows[name]
	if !ok {
		return "", false
	}
	return lw.id, true
}

// Forget drops name from the table if it still maps to windowID. Reports
// whether anything was removed.
func (c *Controller) Forget(name, windowID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	lw, ok := c.windows[name]
	if !ok || lw.id != windowID {
		return false
	}
	delete(c.windows, name)
	return true
}

func sortedKeys(m map[string]*liveWindow) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
