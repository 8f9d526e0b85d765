package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"github.com/five82/xivoverlay/internal/layout"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reporting a change.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to layout files made outside the manager.
type Watcher struct {
	fs     *fsnotify.Watcher
	clock  clockwork.Clock
	logger *slog.Logger
	delay  time.Duration
}

// NewWatcher starts watching dir.
func NewWatcher(dir string, clock clockwork.Clock, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{fs: fw, clock: clock, logger: logger, delay: DefaultDebounce}, nil
}

// Run calls onChange once per settled burst of layout file events until ctx
// is cancelled. It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	defer func() { _ = w.fs.Close() }()

	var timer clockwork.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("layout file changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = w.clock.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.Chan()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("layouts watcher error", "error", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !layout.IsLayoutFile(filepath.Base(ev.Name)) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
