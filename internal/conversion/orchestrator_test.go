package conversion_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"docbridge/internal/conversion"
	"docbridge/internal/format"
	"docbridge/internal/services"
	"docbridge/internal/services/markitdown"
)

type call struct {
	input, target, output string
}

type fakeRunner struct {
	mu          sync.Mutex
	result      markitdown.Result
	err         error
	writeOutput bool
	block       bool
	calls       []call
}

func (f *fakeRunner) Binary() string { return "markitdown" }

func (f *fakeRunner) Convert(ctx context.Context, inputPath, target, outputPath string) (markitdown.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{input: inputPath, target: target, output: outputPath})
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return markitdown.Result{ExitCode: -1}, nil
	}
	if f.err != nil {
		return markitdown.Result{}, f.err
	}
	if f.writeOutput {
		if err := os.WriteFile(outputPath, []byte("converted"), 0o644); err != nil {
			return markitdown.Result{}, err
		}
	}
	return f.result, nil
}

type recorder struct {
	outcomes []conversion.Outcome
	err      error
}

func (r *recorder) Record(_ context.Context, outcome conversion.Outcome) error {
	r.outcomes = append(r.outcomes, outcome)
	return r.err
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("# Report\n\nBody."), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestRunMarkdownToWordCreatesOutputTree(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md")
	output := filepath.Join(dir, "out", "report.docx")
	runner := &fakeRunner{writeOutput: true}

	outcome := conversion.New(runner).Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: output,
	})

	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.Message != "Successfully converted "+input+" to "+output {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
	if outcome.InputFormat != format.Markdown || outcome.OutputFormat != format.Word {
		t.Fatalf("unexpected formats %v → %v", outcome.InputFormat, outcome.OutputFormat)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(runner.calls))
	}
	got := runner.calls[0]
	if got.input != input || got.target != "docx" || got.output != output {
		t.Fatalf("unexpected invocation %+v", got)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output written: %v", err)
	}
	if outcome.ID == "" {
		t.Fatal("expected conversion id")
	}
}

func TestRunWordToMarkdownUsesMarkdownTarget(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "Report.DOCX")
	runner := &fakeRunner{writeOutput: true}

	outcome := conversion.New(runner).Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "report.markdown"),
	})
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if runner.calls[0].target != "markdown" {
		t.Fatalf("expected markdown target, got %q", runner.calls[0].target)
	}
}

func TestRunMissingInputDoesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing.md")
	outDir := filepath.Join(dir, "never")
	runner := &fakeRunner{writeOutput: true}

	outcome := conversion.New(runner).Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(outDir, "x.docx"),
	})

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.Kind != services.KindFileNotFound {
		t.Fatalf("expected file_not_found, got %q", outcome.Kind)
	}
	if outcome.Error != "Input file not found: "+input || !strings.Contains(outcome.Error, "missing.md") {
		t.Fatalf("expected error to name the missing file, got %q", outcome.Error)
	}
	if !strings.Contains(outcome.Message, input) {
		t.Fatalf("expected message to name %q, got %q", input, outcome.Message)
	}
	if len(runner.calls) != 0 {
		t.Fatal("converter must not run for a missing input")
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatalf("output directory must not be created, stat err = %v", err)
	}
}

func TestRunRejectsIdentityPair(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "a.md")
	outDir := filepath.Join(dir, "out")
	runner := &fakeRunner{writeOutput: true}

	outcome := conversion.New(runner).Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(outDir, "b.md"),
	})

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if outcome.Kind != services.KindUnsupportedFormat {
		t.Fatalf("expected unsupported_format, got %q", outcome.Kind)
	}
	if !strings.Contains(outcome.Error, "Markdown to Markdown") {
		t.Fatalf("expected pair in error, got %q", outcome.Error)
	}
	if outcome.Message != "Conversion failed: "+outcome.Error {
		t.Fatalf("unexpected message %q", outcome.Message)
	}
	if len(runner.calls) != 0 {
		t.Fatal("converter must not run for an unsupported pair")
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Fatal("output directory must not be created for an unsupported pair")
	}
}

func TestRunHintsOverrideExtensions(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "draft.txt")
	runner := &fakeRunner{writeOutput: true}

	outcome := conversion.New(runner).Run(context.Background(), conversion.Request{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "draft.out"),
		InputFormat:  "MARKDOWN",
		OutputFormat: "Docx",
	})
	if !outcome.Success {
		t.Fatalf("expected success with explicit formats, got %+v", outcome)
	}
}

func TestRunUnknownHint(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md")

	outcome := conversion.New(&fakeRunner{}).Run(context.Background(), conversion.Request{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "notes.pdf"),
		OutputFormat: "pdf",
	})
	if outcome.Kind != services.KindUnsupportedFormat || !strings.Contains(outcome.Error, "pdf") {
		t.Fatalf("expected unsupported pdf, got %+v", outcome)
	}
	hint, tips := outcome.Hint(), strings.Join(outcome.Tips(), "\n")
	for _, d := range format.Descriptors() {
		exts := append([]string{d.Extension}, d.Aliases...)
		for _, ext := range exts {
			if !strings.Contains(hint, "."+ext) || !strings.Contains(tips, "."+ext) {
				t.Fatalf("guidance must list .%s, got hint %q tips %q", ext, hint, tips)
			}
		}
	}
}

func TestKindTipsNameExtensionsForInvalidPath(t *testing.T) {
	tips := conversion.KindTips(services.KindInvalidPath)
	if len(tips) < 2 || !strings.Contains(tips[0], format.SupportedExtensions()) {
		t.Fatalf("expected leading extension tip, got %q", tips)
	}
	if hint := conversion.KindHint(services.KindIO); hint != services.KindIO.Hint() {
		t.Fatalf("KindHint must pass other kinds through, got %q", hint)
	}
}

func TestRunOutputWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md")
	output := filepath.Join(dir, "README")

	outcome := conversion.New(&fakeRunner{}).Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: output,
	})
	if outcome.Kind != services.KindInvalidPath {
		t.Fatalf("expected invalid_path, got %q", outcome.Kind)
	}
	if !strings.Contains(outcome.Error, output) {
		t.Fatalf("expected error to name %q, got %q", output, outcome.Error)
	}
}

func TestRunFailureStillCreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md")
	outDir := filepath.Join(dir, "nested", "deeper")
	runner := &fakeRunner{result: markitdown.Result{ExitCode: 2, Stderr: []byte("boom")}}

	outcome := conversion.New(runner).Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(outDir, "notes.docx"),
	})
	if outcome.Kind != services.KindConversionFailed {
		t.Fatalf("expected conversion_failed, got %q", outcome.Kind)
	}
	if !strings.Contains(outcome.Error, "boom") {
		t.Fatalf("expected stderr in error, got %q", outcome.Error)
	}
	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		t.Fatalf("expected output directory to exist, err = %v", err)
	}
}

func TestRunMissingOutputAfterSuccessExit(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md")

	outcome := conversion.New(&fakeRunner{}).Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "notes.docx"),
	})
	if outcome.Kind != services.KindConversionFailed {
		t.Fatalf("expected conversion_failed, got %q", outcome.Kind)
	}
	if !strings.Contains(outcome.Error, "Output file was not created") {
		t.Fatalf("unexpected error %q", outcome.Error)
	}
}

func TestRunSpawnFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md")
	runner := &fakeRunner{err: errors.New("exec: \"markitdown\": executable file not found in $PATH")}

	outcome := conversion.New(runner).Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "notes.docx"),
	})
	if outcome.Kind != services.KindMarkitdown {
		t.Fatalf("expected markitdown_error, got %q", outcome.Kind)
	}
	if !errors.Is(outcome.Err(), services.ErrMarkitdown) {
		t.Fatalf("expected Err to match ErrMarkitdown, got %v", outcome.Err())
	}
	if outcome.Hint() == "" || len(outcome.Tips()) == 0 {
		t.Fatal("expected guidance for markitdown failures")
	}
}

func TestRunTimeout(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md")
	runner := &fakeRunner{block: true}

	orch := conversion.New(runner, conversion.WithTimeout(20*time.Millisecond))
	outcome := orch.Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "notes.docx"),
	})
	if outcome.Kind != services.KindConversionFailed {
		t.Fatalf("expected conversion_failed on timeout, got %q (%s)", outcome.Kind, outcome.Error)
	}
}

func TestRunRecordsOutcomes(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md")
	rec := &recorder{err: errors.New("disk full")}

	orch := conversion.New(&fakeRunner{writeOutput: true}, conversion.WithRecorder(rec))
	outcome := orch.Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "notes.docx"),
	})
	if !outcome.Success {
		t.Fatalf("recorder errors must not fail the conversion: %+v", outcome)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0].ID != outcome.ID {
		t.Fatalf("expected outcome recorded once, got %+v", rec.outcomes)
	}

	orch.Run(context.Background(), conversion.Request{InputPath: filepath.Join(dir, "gone.md"), OutputPath: "x.docx"})
	if len(rec.outcomes) != 2 || rec.outcomes[1].Success {
		t.Fatalf("expected failure recorded, got %+v", rec.outcomes)
	}
}

func TestResultJSONShape(t *testing.T) {
	success := conversion.Outcome{
		Success: true,
		Request: conversion.Request{OutputPath: "/tmp/out.docx"},
		Message: "Successfully converted a.md to /tmp/out.docx",
	}
	data, err := json.Marshal(success.Result())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"success":true,"output_path":"/tmp/out.docx","message":"Successfully converted a.md to /tmp/out.docx"}`
	if string(data) != want {
		t.Fatalf("success JSON = %s, want %s", data, want)
	}

	failure := conversion.Outcome{
		Request: conversion.Request{OutputPath: "/tmp/out.docx"},
		Error:   "Input file not found: a.md",
		Message: "The file 'a.md' does not exist",
	}
	data, err = json.Marshal(failure.Result())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want = `{"success":false,"error":"Input file not found: a.md","message":"The file 'a.md' does not exist"}`
	if string(data) != want {
		t.Fatalf("failure JSON = %s, want %s", data, want)
	}
}
