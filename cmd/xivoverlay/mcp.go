package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/five82/xivoverlay/internal/dispatch"
	"github.com/five82/xivoverlay/internal/layout"
	"github.com/five82/xivoverlay/internal/state"
)

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

func (c MCPConfig) validate() error {
	switch c.Transport {
	case "stdio", "streamable-http":
		return nil
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", c.Transport)
	}
}

type actionRunner interface {
	Do(ctx context.Context, a dispatch.Action) error
}

type snapshotter interface {
	Snapshot() state.Snapshot
}

// mcpServer exposes dispatcher actions as MCP tools. Every tool waits for its
// action to be applied before answering and reads the answer from the state
// the action published. Tools never touch the layout store directly.
type mcpServer struct {
	actions actionRunner
	state   snapshotter
	mcp     *mcpserver.MCPServer
}

// overlayEntry is the JSON shape returned by the tools.
type overlayEntry struct {
	layout.Record
	Open bool `json:"open"`
}

func newMCPServer(actions actionRunner, st snapshotter) *mcpServer {
	s := &mcpServer{
		actions: actions,
		state:   st,
		mcp:     mcpserver.NewMCPServer("xivoverlay", version),
	}
	s.registerTools()
	return s
}

// serve blocks until the transport ends or ctx is cancelled.
func (s *mcpServer) serve(ctx context.Context, cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.Start(fmt.Sprintf(":%d", cfg.Port)) }()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		}
	default:
		return cfg.validate()
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_overlays",
			mcp.WithDescription("List every stored overlay with its layout and whether its window is open"),
		),
		s.handleList,
	)

	s.mcp.AddTool(
		mcp.NewTool("show_overlay",
			mcp.WithDescription("Show one overlay's stored layout"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Overlay name")),
		),
		s.handleShow,
	)

	s.mcp.AddTool(
		mcp.NewTool("toggle_overlay",
			mcp.WithDescription("Open or close an overlay window and remember the choice for the next start"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Overlay name")),
			mcp.WithBoolean("active", mcp.Required(), mcp.Description("true to open the window, false to close it")),
		),
		s.handleToggle,
	)

	s.mcp.AddTool(
		mcp.NewTool("save_overlay",
			mcp.WithDescription("Create an overlay, or update an existing one. Omitted fields keep their current values. An open window is rebuilt with the new layout."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Overlay to create or update")),
			mcp.WithString("rename", mcp.Description("New name for an existing overlay")),
			mcp.WithString("url", mcp.Description("Absolute URL to load")),
			mcp.WithNumber("x", mcp.Description("Left edge in pixels")),
			mcp.WithNumber("y", mcp.Description("Top edge in pixels")),
			mcp.WithNumber("width", mcp.Description("Width in pixels")),
			mcp.WithNumber("height", mcp.Description("Height in pixels")),
			mcp.WithBoolean("clickthrough", mcp.Description("Let pointer input pass through the window")),
			mcp.WithBoolean("decorated", mcp.Description("Draw window decorations")),
		),
		s.handleSave,
	)

	s.mcp.AddTool(
		mcp.NewTool("delete_overlay",
			mcp.WithDescription("Close an overlay's window and delete its layout file"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Overlay name")),
		),
		s.handleDelete,
	)
}

func (s *mcpServer) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.actions.Do(ctx, dispatch.LoadOverlaysList{}); err != nil {
		return actionError(err)
	}
	snap := s.state.Snapshot()
	entries := make([]overlayEntry, 0, len(snap.Overlays))
	for _, r := range snap.Overlays {
		entries = append(entries, overlayEntry{Record: r, Open: snap.IsOpen(r.Name)})
	}
	return jsonResult(entries)
}

func (s *mcpServer) handleShow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.actions.Do(ctx, dispatch.SelectOverlay{Name: name}); err != nil {
		return actionError(err)
	}
	return s.entryResult(name)
}

func (s *mcpServer) handleToggle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	active, err := request.RequireBool("active")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.actions.Do(ctx, dispatch.ToggleOverlay{Active: active, Record: layout.Record{Name: name}}); err != nil {
		return actionError(err)
	}
	return s.entryResult(name)
}

func (s *mcpServer) handleSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	patch := layout.Patch{
		Name:         optional(args, "rename", request.GetString),
		URL:          optional(args, "url", request.GetString),
		X:            optional(args, "x", request.GetInt),
		Y:            optional(args, "y", request.GetInt),
		Width:        optional(args, "width", request.GetInt),
		Height:       optional(args, "height", request.GetInt),
		Clickthrough: optional(args, "clickthrough", request.GetBool),
		Decorated:    optional(args, "decorated", request.GetBool),
	}
	if err := s.actions.Do(ctx, dispatch.PatchOverlay{Name: name, Patch: patch}); err != nil {
		return actionError(err)
	}
	if patch.Name != nil {
		name = *patch.Name
	}
	return s.entryResult(name)
}

func (s *mcpServer) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.actions.Do(ctx, dispatch.DeleteOverlay{Record: layout.Record{Name: name}}); err != nil {
		return actionError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", name)), nil
}

// optional returns a pointer to the argument called key, or nil when the
// caller left it out.
func optional[T any](args map[string]any, key string, get func(string, T) T) *T {
	if _, ok := args[key]; !ok {
		return nil
	}
	var zero T
	v := get(key, zero)
	return &v
}

// entryResult answers with name as the last applied action published it.
func (s *mcpServer) entryResult(name string) (*mcp.CallToolResult, error) {
	snap := s.state.Snapshot()
	for _, r := range snap.Overlays {
		if r.Name == name {
			return jsonResult(overlayEntry{Record: r, Open: snap.IsOpen(r.Name)})
		}
	}
	return actionError(fmt.Errorf("%q: %w", name, layout.ErrNotFound))
}

// actionError turns a dispatcher failure into a tool error. Only a stopped
// dispatcher is a protocol-level error.
func actionError(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, dispatch.ErrStopped) {
		return nil, err
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
