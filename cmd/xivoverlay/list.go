package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/xivoverlay/internal/config"
	"github.com/five82/xivoverlay/internal/layout"
	"github.com/five82/xivoverlay/internal/logging"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored overlay layouts",
		Long:  "Read every layout file and print the records sorted by name. No windows are opened.",
		RunE:  runList,
	}
	cmd.Flags().String("format", "yaml", "Output format: yaml, json")
	cmd.Flags().Bool("active", false, "Only list overlays marked active")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	activeOnly, _ := cmd.Flags().GetBool("active")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := layout.NewStore(cfg.LayoutsDir, logging.Discard())
	if err != nil {
		return err
	}
	records, err := store.List()
	if err != nil {
		return err
	}
	if activeOnly {
		filtered := records[:0]
		for _, r := range records {
			if r.Active {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	if records == nil {
		records = []layout.Record{}
	}
	return printRecords(cmd.OutOrStdout(), format, records)
}

func printRecords(w io.Writer, format string, records []layout.Record) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
	}
}
