package display

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/xivoverlay/internal/logging"
)

// TestHelperProcess is not a real test. It plays the renderer helper when the
// test binary is re-executed by helperDisplay.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	failOp := os.Getenv("HELPER_FAIL_OP")
	closeAfter := os.Getenv("HELPER_CLOSE_AFTER")

	scanner := bufio.NewScanner(os.Stdin)
	out := json.NewEncoder(os.Stdout)
	for scanner.Scan() {
		var req request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		if req.Op == failOp {
			_ = out.Encode(message{ID: req.ID, Error: "boom"})
			continue
		}
		_ = out.Encode(message{ID: req.ID, OK: true})
		if req.Op == closeAfter {
			_ = out.Encode(message{Event: "closed"})
			os.Exit(0)
		}
		if req.Op == "close" {
			os.Exit(0)
		}
	}
	os.Exit(0)
}

func helperDisplay(env ...string) *Process {
	return &Process{
		Command: os.Args[0],
		Args:    []string{"-test.run=TestHelperProcess", "--"},
		Env:     append([]string{"GO_WANT_HELPER_PROCESS=1"}, env...),
		Logger:  logging.Discard(),
	}
}

func waitDone(t *testing.T, w Window) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("window not done")
	}
}

func TestProcess_FullLifecycle(t *testing.T) {
	w, err := helperDisplay().CreateWindow(WindowSpec{Title: "DPS", Width: 100, Height: 80})
	require.NoError(t, err)

	require.NoError(t, w.Load("http://localhost/dps"))
	require.NoError(t, w.Show())
	require.NoError(t, w.SetInputPassthrough())
	require.NoError(t, w.Close())
	waitDone(t, w)

	// Closing twice is harmless.
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Load("http://x"), ErrClosed)
}

func TestProcess_RendererError(t *testing.T) {
	w, err := helperDisplay("HELPER_FAIL_OP=load").CreateWindow(WindowSpec{Title: "x"})
	require.NoError(t, err)
	defer w.Close()

	err = w.Load("http://bad")
	var rerr *RendererError
	require.True(t, errors.As(err, &rerr), "got %v", err)
	assert.Equal(t, "load", rerr.Op)
	assert.Equal(t, "boom", rerr.Message)
}

func TestProcess_CreateFailureReturnsError(t *testing.T) {
	_, err := helperDisplay("HELPER_FAIL_OP=create").CreateWindow(WindowSpec{Title: "x"})
	var rerr *RendererError
	require.True(t, errors.As(err, &rerr), "got %v", err)
	assert.Equal(t, "create", rerr.Op)
}

func TestProcess_ExternalCloseSignalsDone(t *testing.T) {
	w, err := helperDisplay("HELPER_CLOSE_AFTER=show").CreateWindow(WindowSpec{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, w.Show())
	waitDone(t, w)
	require.NoError(t, w.Close())
}

func TestProcess_MissingCommand(t *testing.T) {
	_, err := (&Process{}).CreateWindow(WindowSpec{})
	require.Error(t, err)

	_, err = (&Process{Command: fmt.Sprintf("/nonexistent/renderer-%d", os.Getpid())}).CreateWindow(WindowSpec{})
	require.Error(t, err)
}
