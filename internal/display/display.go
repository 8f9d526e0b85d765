package display

import "errors"

// ErrClosed is returned by window operations after the window is gone.
var ErrClosed = errors.New("window closed")

// ErrNotMapped is returned when an operation needs a window that is on screen.
var ErrNotMapped = errors.New("window not mapped")

// WindowSpec is everything the display system needs to build an overlay window.
type WindowSpec struct {
	Title     string
	X         int
	Y         int
	Width     int
	Height    int
	Decorated bool
	KeepAbove bool
}

// Display creates windows on the screen. Implementations are only called
// from the Thread that owns the display connection.
type Display interface {
	CreateWindow(spec WindowSpec) (Window, error)
}

// Window is one realised overlay window hosting a content renderer.
type Window interface {
	// Load points the embedded renderer at url.
	Load(url string) error
	// Show maps the window to the screen.
	Show() error
	// SetInputPassthrough empties the input shape so pointer events reach the
	// windows below. It requires a mapped window.
	SetInputPassthrough() error
	// Close tears the window down. Closing a dead window is not an error.
	Close() error
	// Done is closed once the window is gone, whoever closed it.
	Done() <-chan struct{}
}
