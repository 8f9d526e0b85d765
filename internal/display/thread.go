package display

import (
	"errors"
	"runtime"
	"sync"
)

// ErrThreadStopped is returned by Call once the thread has been stopped.
var ErrThreadStopped = errors.New("display thread stopped")

// Thread runs functions one at a time on a single locked OS thread, the way
// display connections expect to be driven. Call blocks until the function has
// finished, so callers never observe a half-applied display change.
type Thread struct {
	calls chan func()
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewThread starts the display thread.
func NewThread() *Thread {
	t := &Thread{
		calls: make(chan func()),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *Thread) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)

	for {
		select {
		case fn := <-t.calls:
			fn()
		case <-t.quit:
			return
		}
	}
}

// Call runs fn on the display thread and returns its error.
func (t *Thread) Call(fn func() error) error {
	result := make(chan error, 1)
	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- &PanicError{Value: r}
			}
		}()
		result <- fn()
	}

	select {
	case t.calls <- wrapped:
	case <-t.quit:
		return ErrThreadStopped
	}
	return <-result
}

// Stop ends the thread after the call in progress, if any, returns.
func (t *Thread) Stop() {
	t.once.Do(func() { close(t.quit) })
	<-t.done
}

// PanicError carries a panic raised by a function run on the thread.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return "display call panicked: " + formatPanic(e.Value)
}

func formatPanic(v any) string {
	switch x := v.(type) {
	case error:
		return x.Error()
	case string:
		return x
	default:
		return "unknown panic"
	}
}
