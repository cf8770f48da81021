package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"layerpage/internal/config"
	"layerpage/internal/history"
	"layerpage/internal/services"
)

// MustOpenHistory opens the history store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordBuild inserts a build for source with the given outcome, started at
// the provided time, and returns it.
func RecordBuild(t testing.TB, store *history.Store, source string, outcome services.Outcome, started time.Time, assets ...history.Asset) history.Build {
	t.Helper()

	build := history.Build{
		RunID:      uuid.NewString(),
		SourcePath: source,
		Outcome:    outcome,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		LayerCount: len(assets),
		Width:      640,
		Height:     480,
	}
	if err := store.Record(context.Background(), build, assets); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	build.AssetCount = len(assets)
	return build
}
