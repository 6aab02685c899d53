package testsupport

import (
	"context"
	"testing"
	"time"

	"docbridge/internal/config"
	"docbridge/internal/conversion"
	"docbridge/internal/history"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordOutcome stores a synthetic outcome using the provided store.
func RecordOutcome(t testing.TB, store *history.Store, id string, success bool, startedAt time.Time) conversion.Outcome {
	t.Helper()

	outcome := conversion.Outcome{
		ID:        id,
		Request:   conversion.Request{InputPath: "/in/" + id + ".md", OutputPath: "/out/" + id + ".docx"},
		Success:   success,
		Message:   "recorded " + id,
		StartedAt: startedAt,
		Duration:  1500 * time.Millisecond,
	}
	if err := store.Record(context.Background(), outcome); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return outcome
}
