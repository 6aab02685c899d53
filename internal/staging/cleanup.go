package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"docbridge/internal/logging"
)

// CleanStaleResult contains the outcome of a stale upload cleanup operation.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes staged entries (files or directories) in dir older than maxAge.
// It returns the list of removed paths and any errors encountered.
func CleanStale(ctx context.Context, dir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		entryPath := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: entryPath, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.RemoveAll(entryPath); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: entryPath, Error: err})
			if logger != nil {
				logging.WarnWithContext(logger, "failed to remove stale upload", "staging_cleanup_failed",
					logging.String("path", entryPath),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, entryPath)
		if logger != nil {
			logger.Info("removed stale upload",
				logging.String("path", entryPath),
				logging.Duration("age", time.Since(info.ModTime())),
				logging.String(logging.FieldEventType, "staging_cleanup"),
			)
		}
	}

	return result
}

// CleanStale removes uploads in the temp directory older than maxAge.
func (s *Stager) CleanStale(ctx context.Context, maxAge time.Duration) CleanStaleResult {
	return CleanStale(ctx, s.dir, maxAge, s.logger)
}

// Entry contains metadata about a staged upload.
type Entry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"modified"`
	Size    int64     `json:"size"`
}

// HumanSize renders Size for display (for example "1.2 MiB").
func (e Entry) HumanSize() string {
	return humanize.IBytes(uint64(e.Size))
}

// Age renders how long ago the entry was written (for example "3 hours ago").
func (e Entry) Age() string {
	return humanize.Time(e.ModTime)
}

// List returns all entries in dir with their metadata, oldest first.
func List(dir string) ([]Entry, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Entry
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		entryPath := filepath.Join(dir, entry.Name())
		size := info.Size()
		if entry.IsDir() {
			size, _ = dirSize(entryPath)
		}

		out = append(out, Entry{
			Name:    entry.Name(),
			Path:    entryPath,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].Name < out[j].Name
		}
		return out[i].ModTime.Before(out[j].ModTime)
	})

	return out, nil
}

// List returns the uploads currently staged.
func (s *Stager) List() ([]Entry, error) {
	return List(s.dir)
}

// dirSize calculates the total size of a directory recursively.
func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Ignore errors, best effort
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
