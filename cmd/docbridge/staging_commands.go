package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"docbridge/internal/staging"
)

func newStageCommand(ctx *commandContext) *cobra.Command {
	var nameFlag string

	cmd := &cobra.Command{
		Use:   "stage <file>",
		Short: "Copy a document into the upload staging area",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.fileLogger(cfg)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			name := nameFlag
			if name == "" {
				name = filepath.Base(args[0])
			}
			path, err := ctx.newStager(cfg, logger).Save(name, data)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"path": path, "size_bytes": len(data)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Staged %s (%s)\n", path, humanize.IBytes(uint64(len(data))))
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "File name to stage under (defaults to the source base name)")
	return cmd
}

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Manage staged uploads",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingCleanCommand(ctx))
	stagingCmd.AddCommand(newStagingStaleCommand(ctx))

	return stagingCmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List staged uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stager := ctx.newStager(cfg, nil)
			entries, err := stager.List()
			if err != nil {
				return fmt.Errorf("list staged uploads: %w", err)
			}

			var totalSize int64
			for _, entry := range entries {
				totalSize += entry.Size
			}

			if ctx.JSONMode() {
				if entries == nil {
					entries = []staging.Entry{}
				}
				return writeJSON(cmd, map[string]any{
					"staging_dir":      stager.Dir(),
					"uploads":          entries,
					"total_size_bytes": totalSize,
				})
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No staged uploads found")
				return nil
			}

			fmt.Fprintf(out, "Staging directory: %s\n\n", stager.Dir())
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Name, entry.Age(), entry.HumanSize()})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Name", "Age", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "\nTotal: %d uploads, %s\n", len(entries), humanize.IBytes(uint64(totalSize)))
			return nil
		},
	}
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove every staged upload",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.fileLogger(cfg)
			if err != nil {
				return err
			}
			if err := ctx.newStager(cfg, logger).Cleanup(); err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"cleaned": true})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Staging area cleaned")
			return nil
		},
	}
}

func newStagingStaleCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "stale",
		Short: "Remove staged uploads older than a cutoff",
		Long: `Remove staged uploads older than --older-than.

Defaults to [uploads] stale_after_hours from the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.fileLogger(cfg)
			if err != nil {
				return err
			}
			age := maxAge
			if age <= 0 {
				age = cfg.StaleUploadAge()
			}
			if age <= 0 {
				return fmt.Errorf("no cutoff: pass --older-than or set [uploads] stale_after_hours")
			}
			result := ctx.newStager(cfg, logger).CleanStale(cmd.Context(), age)
			if ctx.JSONMode() {
				return writeStagingCleanJSON(cmd, result)
			}
			return printStagingCleanResult(cmd, result)
		},
	}

	cmd.Flags().DurationVar(&maxAge, "older-than", 0, "Age cutoff (e.g. 12h); defaults to the configured stale_after_hours")
	return cmd
}

func printStagingCleanResult(cmd *cobra.Command, result staging.CleanStaleResult) error {
	out := cmd.OutOrStdout()
	if len(result.Removed) == 0 && len(result.Errors) == 0 {
		fmt.Fprintln(out, "No stale uploads to clean")
		return nil
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "Removed %d stale uploads, %d errors\n", len(result.Removed), len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  Error: %s: %v\n", e.Path, e.Error)
		}
		return nil
	}
	fmt.Fprintf(out, "Removed %d stale uploads\n", len(result.Removed))
	return nil
}

func writeStagingCleanJSON(cmd *cobra.Command, result staging.CleanStaleResult) error {
	errs := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, fmt.Sprintf("%s: %v", e.Path, e.Error))
	}
	removed := result.Removed
	if removed == nil {
		removed = []string{}
	}
	return writeJSON(cmd, map[string]any{
		"removed": removed,
		"errors":  errs,
	})
}
