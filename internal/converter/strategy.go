package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docbridge/internal/format"
	"docbridge/internal/services"
	"docbridge/internal/services/markitdown"
)

// Runner executes the external converter. *markitdown.Client satisfies it.
type Runner interface {
	Binary() string
	Convert(ctx context.Context, inputPath, target, outputPath string) (markitdown.Result, error)
}

// Strategy converts one file for a fixed format pair.
type Strategy interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
	Input() format.Format
	Output() format.Format
}

type markitdownStrategy struct {
	pair   Pair
	target string
	runner Runner
}

// NewMarkdownToWord returns the Markdown→Word strategy.
func NewMarkdownToWord(runner Runner) Strategy {
	return newStrategy(Pair{From: format.Markdown, To: format.Word}, runner)
}

// NewWordToMarkdown returns the Word→Markdown strategy.
func NewWordToMarkdown(runner Runner) Strategy {
	return newStrategy(Pair{From: format.Word, To: format.Markdown}, runner)
}

func newStrategy(pair Pair, runner Runner) Strategy {
	return &markitdownStrategy{pair: pair, target: targets[pair], runner: runner}
}

func (s *markitdownStrategy) Input() format.Format  { return s.pair.From }
func (s *markitdownStrategy) Output() format.Format { return s.pair.To }

func (s *markitdownStrategy) Convert(ctx context.Context, inputPath, outputPath string) error {
	if !exists(inputPath) {
		return services.FileNotFound(inputPath)
	}

	if err := EnsureParentDir(outputPath); err != nil {
		return err
	}

	res, err := s.runner.Convert(ctx, inputPath, s.target, outputPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return services.NewError(services.KindConversionFailed,
				fmt.Sprintf("markitdown did not run: %v", ctxErr), ctxErr)
		}
		return services.NewError(services.KindMarkitdown,
			fmt.Sprintf("Failed to execute %s: %v. Make sure markitdown is installed and available in PATH.", s.runner.Binary(), err),
			err)
	}

	if !res.Success() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return services.NewError(services.KindConversionFailed,
				fmt.Sprintf("markitdown was stopped before finishing: %v", ctxErr), ctxErr)
		}
		return services.NewError(services.KindConversionFailed,
			fmt.Sprintf("Markitdown conversion failed.\nStderr: %s\nStdout: %s", res.Stderr, res.Stdout),
			nil)
	}

	if !exists(outputPath) {
		return services.NewError(services.KindConversionFailed, "Output file was not created successfully", nil)
	}
	return nil
}

// EnsureParentDir creates the parent directory of path and any missing
// ancestors. Paths without a directory component need nothing created.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" || strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.NewError(services.KindIO,
			fmt.Sprintf("Failed to create output directory: %v", err), err)
	}
	return nil
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
