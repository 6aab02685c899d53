package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docbridge/internal/config"
	"docbridge/internal/deps"
	"docbridge/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories and the markitdown converter",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			status := preflight.ConverterStatus(cmd.Context(), cfg)

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"checks":    results,
					"converter": status,
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range checkLines(cfg, results, status, colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range results {
				if !result.Passed {
					return fmt.Errorf("%s check failed", strings.ToLower(result.Name))
				}
			}
			return nil
		},
	}
}

func checkLines(cfg *config.Config, results []preflight.Result, status deps.Status, colorize bool) []string {
	lines := renderSectionHeader("Preflight", colorize)
	for _, result := range results {
		lines = append(lines, renderStatusLine(result.Name, statusFromCheck(result.Passed), result.Detail, colorize))
	}
	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Converter", colorize)...)
	lines = append(lines, converterLine(status, colorize))
	if cfg != nil {
		historyKind := statusInfo
		if !cfg.History.Enabled {
			historyKind = statusWarn
		}
		lines = append(lines,
			renderStatusLine("History", historyKind, fmt.Sprintf("enabled: %s", yesNo(cfg.History.Enabled)), colorize),
			renderStatusLine("API", statusInfo, fmt.Sprintf("%s (token: %s)", cfg.API.Bind, yesNo(cfg.API.Token != "")), colorize),
		)
	}
	return lines
}

func converterLine(status deps.Status, colorize bool) string {
	if status.Available {
		message := "Ready"
		if status.Version != "" {
			message = fmt.Sprintf("Ready (%s)", status.Version)
		}
		if status.Command != "" {
			message = fmt.Sprintf("%s command: %s", message, status.Command)
		}
		return renderStatusLine("markitdown", statusOK, message, colorize)
	}
	detail := strings.TrimSpace(status.Detail)
	if detail == "" {
		detail = "not available"
	}
	return renderStatusLine("markitdown", statusError, detail+" (install with `pip install 'markitdown[all]'`)", colorize)
}
