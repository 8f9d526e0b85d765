package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/xivoverlay/internal/logging"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"yaml write", fsnotify.Event{Name: "/l/dps.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "/l/dps.yml", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "/l/dps.yaml", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/l/dps.yaml", Op: fsnotify.Chmod}, false},
		{"temp file", fsnotify.Event{Name: "/l/.layout-123.tmp", Op: fsnotify.Create}, false},
		{"other file", fsnotify.Event{Name: "/l/notes.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}

func TestWatcher_DebouncesLayoutChanges(t *testing.T) {
	dir := t.TempDir()
	clock := clockwork.NewFakeClock()
	w, err := NewWatcher(dir, clock, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{}, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func() { changes <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dps.yaml"), []byte("name: dps\n"), 0o644))

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	select {
	case <-changes:
		t.Fatal("change reported before the debounce elapsed")
	default:
	}

	clock.Advance(DefaultDebounce)
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	<-done
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), nil, nil)
	assert.Error(t, err)
}
