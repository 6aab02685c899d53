package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"docbridge/internal/config"
	"docbridge/internal/conversion"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Store manages conversion history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is one recorded conversion.
type Entry struct {
	ID           string        `json:"id"`
	StartedAt    time.Time     `json:"started_at"`
	InputPath    string        `json:"input_path"`
	OutputPath   string        `json:"output_path"`
	InputFormat  string        `json:"input_format,omitempty"`
	OutputFormat string        `json:"output_format,omitempty"`
	Success      bool          `json:"success"`
	Kind         string        `json:"error_kind,omitempty"`
	Error        string        `json:"error,omitempty"`
	Message      string        `json:"message"`
	Duration     time.Duration `json:"duration_ns"`
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = "id, started_at, input_path, output_path, input_format, output_format, success, error_kind, error_message, message, duration_ms"

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs op again with exponential backoff while SQLite reports the
// database as locked. A CLI conversion and the API server may write at once.
func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the history database at cfg.Paths.HistoryDB.
func Open(cfg *config.Config) (*Store, error) {
	return OpenPath(cfg.Paths.HistoryDB)
}

// OpenPath initializes or connects to the history database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record stores a finished conversion. It satisfies conversion.Recorder.
func (s *Store) Record(ctx context.Context, outcome conversion.Outcome) error {
	ctx = ensureContext(ctx)
	started := outcome.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	success := 0
	if outcome.Success {
		success = 1
	}
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO conversions (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			outcome.ID,
			started.UTC().Format(timeLayout),
			outcome.Request.InputPath,
			outcome.Request.OutputPath,
			nullableString(formatName(outcome.InputFormat.Valid(), outcome.InputFormat.String())),
			nullableString(formatName(outcome.OutputFormat.Valid(), outcome.OutputFormat.String())),
			success,
			nullableString(string(outcome.Kind)),
			nullableString(outcome.Error),
			outcome.Message,
			outcome.Duration.Milliseconds(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM conversions ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM conversions`)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear conversions: %w", err)
	}
	return removed, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		startedRaw   string
		inputFormat  sql.NullString
		outputFormat sql.NullString
		success      int
		kind         sql.NullString
		errorMessage sql.NullString
		durationMS   int64
	)
	if err := scanner.Scan(
		&entry.ID,
		&startedRaw,
		&entry.InputPath,
		&entry.OutputPath,
		&inputFormat,
		&outputFormat,
		&success,
		&kind,
		&errorMessage,
		&entry.Message,
		&durationMS,
	); err != nil {
		return Entry{}, err
	}
	entry.StartedAt = parseTime(startedRaw)
	entry.InputFormat = inputFormat.String
	entry.OutputFormat = outputFormat.String
	entry.Success = success != 0
	entry.Kind = kind.String
	entry.Error = errorMessage.String
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	return entry, nil
}

func formatName(valid bool, name string) string {
	if !valid {
		return ""
	}
	return name
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
