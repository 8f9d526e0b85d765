package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/five82/xivoverlay/internal/layout"
)

// ErrStopped is returned once the dispatcher has stopped consuming actions.
var ErrStopped = errors.New("dispatcher stopped")

// QueueSize is the number of actions that can wait before Submit blocks.
const QueueSize = 64

// RecordStore is the persistence the dispatcher mutates.
type RecordStore interface {
	List() ([]layout.Record, error)
	FindByName(name string) (layout.Record, error)
	Save(r layout.Record) error
	Delete(name string) error
	FileOf(name string) string
	CheckAvailable(name, previous string) error
}

// Windows is the live-window table the dispatcher drives.
type Windows interface {
	Open(r layout.Record) error
	Close(name string) bool
	Reconcile(record, previous layout.Record) error
	CloseAll()
	IsOpen(name string) bool
	OpenNames() []string
	Forget(name, windowID string) bool
}

// View receives everything the dispatcher wants shown. Implementations must
// not block.
type View interface {
	ShowOverlays(records []layout.Record, open map[string]bool)
	ShowDetail(r layout.Record, isNew bool)
	ClearDetail()
	Alert(err error)
	Notice(msg string)
}

type envelope struct {
	action Action
	result chan error
}

// Dispatcher applies actions one at a time, in the order they were submitted.
// Only the goroutine in Run touches the store and the window table.
type Dispatcher struct {
	store   RecordStore
	windows Windows
	view    View
	logger  *slog.Logger

	queue chan envelope
	done  chan struct{}

	// name of the record shown in the detail view, "" when none
	selected string
}

// New returns a dispatcher. Nothing is processed until Run is called.
func New(store RecordStore, windows Windows, view View, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:   store,
		windows: windows,
		view:    view,
		logger:  logger,
		queue:   make(chan envelope, QueueSize),
		done:    make(chan struct{}),
	}
}

// Submit queues a for processing. It is safe to call from any goroutine and
// returns false once the dispatcher has stopped.
func (d *Dispatcher) Submit(a Action) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.queue <- envelope{action: a}:
		return true
	case <-d.done:
		return false
	}
}

// Do queues a and waits until it has been applied, returning its error.
func (d *Dispatcher) Do(ctx context.Context, a Action) error {
	env := envelope{action: a, result: make(chan error, 1)}
	select {
	case d.queue <- env:
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-env.result:
		return err
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes actions until ctx is cancelled, then closes every window.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	defer d.windows.CloseAll()

	d.logger.Debug("dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("dispatcher stopping", "pending", len(d.queue))
			return
		case env := <-d.queue:
			err := d.handle(env.action)
			if env.result != nil {
				env.result <- err
			}
		}
	}
}

// Done is closed once Run has returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) handle(a Action) error {
	d.logger.Debug("action", "action", Name(a))

	var err error
	switch a := a.(type) {
	case LoadOverlaysList:
		err = d.loadList()
	case SelectOverlay:
		err = d.selectOverlay(a.Name)
	case ToggleOverlay:
		err = d.toggle(a)
	case SaveOverlay:
		err = d.save(a)
	case PatchOverlay:
		err = d.patch(a)
	case DeleteOverlay:
		err = d.delete(a.Record)
	case NewOverlay:
		d.newOverlay()
	case ResumeActive:
		err = d.resumeActive()
	case WindowClosed:
		err = d.windowClosed(a)
	default:
		d.logger.Warn("unknown action ignored", "action", Name(a))
	}
	if err != nil {
		d.report(a, err)
	}
	return err
}

func (d *Dispatcher) report(a Action, err error) {
	if errors.Is(err, layout.ErrNotFound) {
		d.logger.Info("overlay not found", "action", Name(a), "error", err)
		d.view.Notice(err.Error())
		return
	}
	d.logger.Error("action failed", "action", Name(a), "error", err)
	d.view.Alert(err)
}
