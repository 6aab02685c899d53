package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"docbridge/internal/conversion"
	"docbridge/internal/services"
)

// errConversionFailed signals a failed outcome that was already printed.
var errConversionFailed = errors.New("conversion failed")

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var fromFlag string
	var toFlag string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a document between Markdown and Word",
		Long: `Convert a document by delegating to markitdown.

Formats are taken from --from/--to when given, otherwise from the file
extensions (.md, .markdown, .docx). The output directory is created when
missing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.fileLogger(cfg)
			if err != nil {
				return err
			}
			store := ctx.openHistory(cfg, logger)
			if store != nil {
				defer store.Close()
			}
			orchestrator := ctx.newOrchestrator(cfg, logger, store)

			outcome := orchestrator.Run(cmd.Context(), conversion.Request{
				InputPath:    args[0],
				OutputPath:   args[1],
				InputFormat:  fromFlag,
				OutputFormat: toFlag,
			})

			if ctx.JSONMode() {
				if err := writeJSON(cmd, outcome.Result()); err != nil {
					return err
				}
			} else {
				printOutcome(cmd.OutOrStdout(), cmd.ErrOrStderr(), outcome)
			}
			if !outcome.Success {
				return errConversionFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Input format (md, markdown, docx)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Output format (md, markdown, docx)")
	return cmd
}

func printOutcome(out, errOut io.Writer, outcome conversion.Outcome) {
	if outcome.Success {
		fmt.Fprintln(out, outcome.Message)
		fmt.Fprintf(out, "Output: %s\n", outcome.Request.OutputPath)
		return
	}
	fmt.Fprintln(errOut, outcome.Message)
	if outcome.Kind != "" {
		fmt.Fprintf(errOut, "Kind: %s\n", outcome.Kind.Label())
	}
	if hint := outcome.Hint(); hint != "" {
		fmt.Fprintf(errOut, "Hint: %s\n", hint)
	}
	for _, tip := range outcome.Tips() {
		fmt.Fprintf(errOut, "  - %s\n", tip)
	}
	if outcome.Duration > 0 {
		fmt.Fprintf(errOut, "Elapsed: %s\n", outcome.Duration.Round(time.Millisecond))
	}
}

// exitError hides errors whose details were already written by the command.
func exitError(err error) string {
	if errors.Is(err, errConversionFailed) {
		return ""
	}
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		if hint := conversion.KindHint(svcErr.Kind); hint != "" {
			return fmt.Sprintf("%v\nHint: %s", err, hint)
		}
	}
	return err.Error()
}
