package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/xivoverlay/internal/app"
)

// newRootCmd builds the command tree. Running the root command starts the
// management console.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xivoverlay",
		Short:         "Manage always-on-top web overlay windows",
		Long:          "Create, edit and toggle borderless web overlay windows whose layouts are kept as YAML files.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), appOptions(cmd))
		},
	}
	root.PersistentFlags().String("config", "", "override config path (optional)")
	root.PersistentFlags().String("prefs", "", "override UI preferences path (optional)")
	root.PersistentFlags().Bool("headless", false, "keep windows in memory instead of starting renderers")

	root.AddCommand(newListCmd(), newServeCmd())
	return root
}

func appOptions(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	prefsPath, _ := cmd.Flags().GetString("prefs")
	headless, _ := cmd.Flags().GetBool("headless")
	return app.Options{ConfigPath: configPath, PrefsPath: prefsPath, Headless: headless}
}

func execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "xivoverlay: %v\n", err)
		return 1
	}
	return 0
}
