package display

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Headless is an in-memory Display. It keeps track of every window it was
// asked to build and logs each operation, which makes it useful both for
// running without a screen and for tests.
type Headless struct {
	mu      sync.Mutex
	logger  *slog.Logger
	nextID  int
	windows map[int]*HeadlessWindow
	failOn  map[string]error
}

// NewHeadless returns an empty headless display.
func NewHeadless(logger *slog.Logger) *Headless {
	if logger == nil {
		logger = slog.Default()
	}
	return &Headless{
		logger:  logger,
		windows: make(map[int]*HeadlessWindow),
		failOn:  make(map[string]error),
	}
}

// FailNext makes the next operation named op ("create", "load", "show",
// "input_passthrough", "close") return err.
func (h *Headless) FailNext(op string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failOn[op] = err
}

func (h *Headless) takeFailure(op string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := h.failOn[op]
	delete(h.failOn, op)
	return err
}

// CreateWindow implements Display.
func (h *Headless) CreateWindow(spec WindowSpec) (Window, error) {
	if err := h.takeFailure("create"); err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.nextID++
	w := &HeadlessWindow{
		id:      h.nextID,
		display: h,
		spec:    spec,
		done:    make(chan struct{}),
	}
	h.windows[w.id] = w
	h.mu.Unlock()

	h.logger.Debug("headless window created", "window", w.id, "title", spec.Title,
		"x", spec.X, "y", spec.Y, "width", spec.Width, "height", spec.Height, "decorated", spec.Decorated)
	return w, nil
}

// Live returns a snapshot of the windows that have not been closed, ordered by
// creation.
func (h *Headless) Live() []WindowState {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]WindowState, 0, len(h.windows))
	for _, w := range h.windows {
		if w.closed {
			continue
		}
		out = append(out, w.stateLocked())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Find returns the live window whose title matches.
func (h *Headless) Find(title string) (WindowState, bool) {
	for _, w := range h.Live() {
		if w.Spec.Title == title {
			return w, true
		}
	}
	return WindowState{}, false
}

// CloseExternally simulates the user or the compositor destroying the live
// window titled title. It reports whether such a window existed.
func (h *Headless) CloseExternally(title string) bool {
	h.mu.Lock()
	var target *HeadlessWindow
	for _, w := range h.windows {
		if !w.closed && w.spec.Title == title {
			target = w
			break
		}
	}
	h.mu.Unlock()
	if target == nil {
		return false
	}
	target.teardown()
	return true
}

// WindowState describes a headless window at a point in time.
type WindowState struct {
	ID          int
	Spec        WindowSpec
	URL         string
	Mapped      bool
	Passthrough bool
}

// HeadlessWindow is the Window produced by Headless.
type HeadlessWindow struct {
	id          int
	display     *Headless
	spec        WindowSpec
	url         string
	mapped      bool
	passthrough bool
	closed      bool
	done        chan struct{}
}

func (w *HeadlessWindow) stateLocked() WindowState {
	return WindowState{
		ID:          w.id,
		Spec:        w.spec,
		URL:         w.url,
		Mapped:      w.mapped,
		Passthrough: w.passthrough,
	}
}

// Load implements Window.
func (w *HeadlessWindow) Load(url string) error {
	if err := w.display.takeFailure("load"); err != nil {
		return err
	}
	h := w.display
	h.mu.Lock()
	defer h.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.url = url
	h.logger.Debug("headless window load", "window", w.id, "url", url)
	return nil
}

// Show implements Window.
func (w *HeadlessWindow) Show() error {
	if err := w.display.takeFailure("show"); err != nil {
		return err
	}
	h := w.display
	h.mu.Lock()
	defer h.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.mapped = true
	h.logger.Info("overlay window shown", "window", w.id, "title", w.spec.Title)
	return nil
}

// SetInputPassthrough implements Window.
func (w *HeadlessWindow) SetInputPassthrough() error {
	if err := w.display.takeFailure("input_passthrough"); err != nil {
		return err
	}
	h := w.display
	h.mu.Lock()
	defer h.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if !w.mapped {
		return fmt.Errorf("set input shape: %w", ErrNotMapped)
	}
	w.passthrough = true
	return nil
}

// Close implements Window.
func (w *HeadlessWindow) Close() error {
	if err := w.display.takeFailure("close"); err != nil {
		return err
	}
	if w.teardown() {
		w.display.logger.Info("overlay window closed", "window", w.id, "title", w.spec.Title)
	}
	return nil
}

func (w *HeadlessWindow) teardown() bool {
	h := w.display
	h.mu.Lock()
	defer h.mu.Unlock()
	if w.closed {
		return false
	}
	w.closed = true
	w.mapped = false
	close(w.done)
	return true
}

// Done implements Window.
func (w *HeadlessWindow) Done() <-chan struct{} {
	return w.done
}
