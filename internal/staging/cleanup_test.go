package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docbridge/internal/logging"
)

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldEntries(t *testing.T) {
	tmpDir := t.TempDir()
	oldTime := time.Now().Add(-2 * time.Hour)

	// Old upload
	oldFile := filepath.Join(tmpDir, "old.md")
	if err := os.WriteFile(oldFile, []byte("# old"), 0o644); err != nil {
		t.Fatalf("create old file: %v", err)
	}
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	// Old directory left behind by an earlier run
	oldDir := filepath.Join(tmpDir, "leftover")
	if err := os.Mkdir(oldDir, 0o755); err != nil {
		t.Fatalf("create old dir: %v", err)
	}
	if err := os.Chtimes(oldDir, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	// Recent upload
	recentFile := filepath.Join(tmpDir, "recent.docx")
	if err := os.WriteFile(recentFile, []byte("PK"), 0o644); err != nil {
		t.Fatalf("create recent file: %v", err)
	}

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 2 {
		t.Fatalf("expected 2 removed, got %d (%v)", len(result.Removed), result.Removed)
	}
	for _, path := range []string{oldFile, oldDir} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", path)
		}
	}
	if _, err := os.Stat(recentFile); err != nil {
		t.Error("recent upload should still exist")
	}
}

func TestCleanStaleStopsWhenContextCancelled(t *testing.T) {
	tmpDir := t.TempDir()
	oldFile := filepath.Join(tmpDir, "old.md")
	if err := os.WriteFile(oldFile, []byte("# old"), 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := CleanStale(ctx, tmpDir, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals after cancellation, got %v", result.Removed)
	}
	if _, err := os.Stat(oldFile); err != nil {
		t.Fatal("file should not have been removed")
	}
}

func TestListInvalidPaths(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/path/12345"} {
		entries, err := List(path)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", path, err)
		}
		if entries != nil {
			t.Errorf("expected nil for path %q, got %v", path, entries)
		}
	}
}

func TestList(t *testing.T) {
	tmpDir := t.TempDir()

	older := filepath.Join(tmpDir, "b.md")
	if err := os.WriteFile(older, []byte("12345"), 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatalf("set time: %v", err)
	}

	dir := filepath.Join(tmpDir, "a-dir")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.bin"), []byte("123"), 0o644); err != nil {
		t.Fatalf("create inner file: %v", err)
	}

	entries, err := List(tmpDir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Oldest first
	if entries[0].Name != "b.md" {
		t.Fatalf("expected b.md first, got %q", entries[0].Name)
	}
	if entries[0].Size != 5 {
		t.Errorf("b.md size = %d, want 5", entries[0].Size)
	}
	if entries[0].Path != older {
		t.Errorf("Path = %q, want %q", entries[0].Path, older)
	}
	if entries[1].Size != 3 {
		t.Errorf("directory size = %d, want 3", entries[1].Size)
	}
	if entries[0].HumanSize() != "5 B" {
		t.Errorf("HumanSize = %q, want 5 B", entries[0].HumanSize())
	}
	if entries[0].Age() == "" {
		t.Error("expected non-empty age")
	}
}
