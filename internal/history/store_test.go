package history_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docbridge/internal/conversion"
	"docbridge/internal/format"
	"docbridge/internal/history"
	"docbridge/internal/services"
	"docbridge/internal/services/markitdown"
	"docbridge/internal/testsupport"
)

func TestOpenCreatesDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	if store.Path() != cfg.Paths.HistoryDB {
		t.Fatalf("unexpected path %q", store.Path())
	}
	if _, err := os.Stat(cfg.Paths.HistoryDB); err != nil {
		t.Fatalf("expected database file: %v", err)
	}

	entries, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d", len(entries))
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testsupport.RecordOutcome(t, store, "first", true, time.Now())
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenHistory(t, cfg)
	entries, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "first" {
		t.Fatalf("expected persisted entry, got %+v", entries)
	}
}

func TestRecordRoundTripsOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	started := time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC)
	outcome := conversion.Outcome{
		ID:           "abc",
		Request:      conversion.Request{InputPath: "/docs/a.md", OutputPath: "/docs/a.docx"},
		InputFormat:  format.Markdown,
		OutputFormat: format.Word,
		Kind:         services.KindConversionFailed,
		Error:        "Conversion failed: boom",
		Message:      "Conversion failed: Conversion failed: boom",
		StartedAt:    started,
		Duration:     2 * time.Second,
	}
	if err := store.Record(context.Background(), outcome); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %s, want %s", got.StartedAt, started)
	}
	if got.InputFormat != "Markdown" || got.OutputFormat != "Word" {
		t.Errorf("formats = %q → %q", got.InputFormat, got.OutputFormat)
	}
	if got.Success {
		t.Error("expected failure entry")
	}
	if got.Kind != string(services.KindConversionFailed) || got.Error != "Conversion failed: boom" {
		t.Errorf("unexpected failure fields %+v", got)
	}
	if got.Duration != 2*time.Second {
		t.Errorf("Duration = %s", got.Duration)
	}
}

func TestRecordLeavesUnresolvedFormatsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	outcome := conversion.Outcome{
		ID:      "missing",
		Request: conversion.Request{InputPath: "missing.md", OutputPath: "x.docx"},
		Kind:    services.KindFileNotFound,
		Error:   "Input file not found: missing.md",
		Message: "The file 'missing.md' does not exist",
	}
	if err := store.Record(context.Background(), outcome); err != nil {
		t.Fatalf("Record: %v", err)
	}
	entries, _ := store.List(context.Background(), 1)
	if entries[0].InputFormat != "" || entries[0].OutputFormat != "" {
		t.Fatalf("expected empty formats, got %+v", entries[0])
	}
	if entries[0].StartedAt.IsZero() {
		t.Fatal("expected a timestamp even when the outcome had none")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	testsupport.RecordOutcome(t, store, "old", true, base)
	testsupport.RecordOutcome(t, store, "mid", false, base.Add(500*time.Millisecond))
	testsupport.RecordOutcome(t, store, "new", true, base.Add(time.Second))

	entries, err := store.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "new" || entries[1].ID != "mid" {
		t.Fatalf("unexpected order: %s, %s", entries[0].ID, entries[1].ID)
	}
}

func TestClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	testsupport.RecordOutcome(t, store, "a", true, time.Now())
	testsupport.RecordOutcome(t, store, "b", true, time.Now())

	removed, err := store.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	entries, _ := store.List(context.Background(), 0)
	if len(entries) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(entries))
	}
}

func TestOrchestratorRecordsIntoStore(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMarkitdownScript(testsupport.ConvertingScript))
	store := testsupport.MustOpenHistory(t, cfg)
	base := testsupport.BaseDir(cfg)
	input := testsupport.WriteMarkdown(t, filepath.Join(base, "docs", "notes.md"), "# Notes\n")

	runner := markitdown.New(cfg.Converter.Binary)
	orch := conversion.New(runner, conversion.WithRecorder(store))
	outcome := orch.Run(context.Background(), conversion.Request{
		InputPath:  input,
		OutputPath: filepath.Join(base, "out", "notes.docx"),
	})
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}

	entries, err := store.List(context.Background(), 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != outcome.ID || !entries[0].Success {
		t.Fatalf("expected recorded success, got %+v", entries)
	}
}

func TestOpenPathRejectsEmpty(t *testing.T) {
	if _, err := history.OpenPath("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if err := history.BumpSchemaVersionForTest(store); err != nil {
		t.Fatalf("bump schema: %v", err)
	}
	store.Close()

	_, err := history.Open(cfg)
	if !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
