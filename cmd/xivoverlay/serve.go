package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/xivoverlay/internal/app"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the overlay manager as an MCP server",
		Long: `Start the overlay manager without the console and expose it as a Model
Context Protocol (MCP) server, so agents can list, show, edit and toggle
overlays.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport

Examples:
  xivoverlay serve
  xivoverlay serve --transport streamable-http --port 8080`,
		RunE: runServe,
	}
	cmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	cmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cfg := MCPConfig{Transport: transport, Port: port}
	if err := cfg.validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	rt, err := app.Start(ctx, appOptions(cmd))
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := newMCPServer(rt.Dispatcher, rt.State)
	rt.Logger.Info("mcp server starting", "transport", cfg.Transport, "port", cfg.Port)
	return srv.serve(ctx, cfg)
}
