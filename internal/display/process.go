package display

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// Process is a Display that spawns one renderer helper per window and drives
// it with newline-delimited JSON over the helper's stdin and stdout.
type Process struct {
	Command string
	Args    []string
	// Env is appended to the current environment of each helper.
	Env    []string
	Logger *slog.Logger
}

// request is one line sent to the helper.
type request struct {
	ID        uint64 `json:"id"`
	Op        string `json:"op"`
	Title     string `json:"title,omitempty"`
	X         int    `json:"x,omitempty"`
	Y         int    `json:"y,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Decorated bool   `json:"decorated,omitempty"`
	KeepAbove bool   `json:"keep_above,omitempty"`
	URL       string `json:"url,omitempty"`
}

// message is one line read from the helper: either a reply or an event.
type message struct {
	ID    uint64 `json:"id,omitempty"`
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
	Event string `json:"event,omitempty"`
}

// RendererError is an error reported by the helper for one operation.
type RendererError struct {
	Op      string
	Message string
}

func (e *RendererError) Error() string {
	return fmt.Sprintf("renderer %s: %s", e.Op, e.Message)
}

// CreateWindow starts a helper and asks it to build the window.
func (p *Process) CreateWindow(spec WindowSpec) (Window, error) {
	if p.Command == "" {
		return nil, errors.New("renderer command not configured")
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.Command(p.Command, p.Args...)
	if len(p.Env) > 0 {
		cmd.Env = append(os.Environ(), p.Env...)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("renderer stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("renderer stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start renderer %s: %w", p.Command, err)
	}

	w := &processWindow{
		cmd:     cmd,
		stdin:   stdin,
		enc:     json.NewEncoder(stdin),
		pending: make(map[uint64]chan message),
		done:    make(chan struct{}),
		logger:  logger.With("title", spec.Title, "pid", cmd.Process.Pid),
	}
	go w.readLoop(stdout)

	err = w.call(request{
		Op:        "create",
		Title:     spec.Title,
		X:         spec.X,
		Y:         spec.Y,
		Width:     spec.Width,
		Height:    spec.Height,
		Decorated: spec.Decorated,
		KeepAbove: spec.KeepAbove,
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

type processWindow struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logger *slog.Logger

	mu      sync.Mutex
	enc     *json.Encoder
	nextID  uint64
	pending map[uint64]chan message

	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
}

func (w *processWindow) Load(url string) error {
	return w.call(request{Op: "load", URL: url})
}

func (w *processWindow) Show() error {
	return w.call(request{Op: "show"})
}

func (w *processWindow) SetInputPassthrough() error {
	return w.call(request{Op: "input_passthrough"})
}

// Close asks the helper to destroy the window and waits for it to exit. A
// helper that already went away is not an error.
func (w *processWindow) Close() error {
	w.closeOnce.Do(func() {
		select {
		case <-w.done:
		default:
			if err := w.call(request{Op: "close"}); err != nil && !errors.Is(err, ErrClosed) {
				w.logger.Warn("renderer close request failed", "error", err)
			}
		}
		_ = w.stdin.Close()
	})
	<-w.done
	return nil
}

func (w *processWindow) Done() <-chan struct{} {
	return w.done
}

func (w *processWindow) call(req request) error {
	reply := make(chan message, 1)

	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return ErrClosed
	default:
	}
	w.nextID++
	req.ID = w.nextID
	w.pending[req.ID] = reply
	err := w.enc.Encode(req)
	if err != nil {
		delete(w.pending, req.ID)
	}
	w.mu.Unlock()
	if err != nil {
		return fmt.Errorf("send %s: %w", req.Op, err)
	}

	select {
	case msg := <-reply:
		if msg.Error != "" {
			return &RendererError{Op: req.Op, Message: msg.Error}
		}
		return nil
	case <-w.done:
		return ErrClosed
	}
}

func (w *processWindow) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			w.logger.Debug("renderer output ignored", "line", scanner.Text())
			continue
		}
		if msg.Event != "" {
			if msg.Event == "closed" {
				w.logger.Info("renderer reported window closed")
				w.markDone()
			}
			continue
		}
		w.mu.Lock()
		ch, ok := w.pending[msg.ID]
		delete(w.pending, msg.ID)
		w.mu.Unlock()
		if ok {
			ch <- msg
		}
	}
	if err := scanner.Err(); err != nil {
		w.logger.Warn("renderer output read failed", "error", err)
	}
	if err := w.cmd.Wait(); err != nil {
		w.logger.Warn("renderer exited", "error", err)
	} else {
		w.logger.Debug("renderer exited")
	}
	w.markDone()
}

func (w *processWindow) markDone() {
	w.doneOnce.Do(func() { close(w.done) })
}
