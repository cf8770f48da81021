package main

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"layerpage/internal/history"
	"layerpage/internal/services"
	"layerpage/internal/testsupport"
)

func TestHistoryListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "No builds recorded")
}

func TestHistoryListShowAndClear(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenHistory(t, env.cfg)
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hero := testsupport.RecordBuild(t, store, "/work/hero.psd", services.OutcomeSucceeded, started,
		history.Asset{Fingerprint: "0123456789abcdef", Path: "images/123456.png", Layer: "Logo"},
	)
	testsupport.RecordBuild(t, store, "/work/broken.psd", services.OutcomeFailed, started.Add(time.Minute))
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "/work/hero.psd")
	requireContains(t, out, "/work/broken.psd")
	requireContains(t, out, "succeeded 1")
	requireContains(t, out, "failed 1")

	out, _, err = runCLI(t, env.configPath, "history", "list", "--json", "--limit", "1")
	if err != nil {
		t.Fatalf("history list --json: %v", err)
	}
	var builds []history.Build
	if err := json.Unmarshal([]byte(out), &builds); err != nil {
		t.Fatalf("decode builds: %v\n%s", err, out)
	}
	if len(builds) != 1 || builds[0].SourcePath != "/work/broken.psd" {
		t.Fatalf("expected newest build only, got %+v", builds)
	}

	out, _, err = runCLI(t, env.configPath, "history", "show", hero.RunID[:8])
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, hero.RunID)
	requireContains(t, out, "images/123456.png")
	requireContains(t, out, "Logo")

	out, _, err = runCLI(t, env.configPath, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 2 builds")
}

func TestHistoryShowUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "history", "show", "deadbeef")
	if err == nil {
		t.Fatal("expected unknown run id to fail")
	}
	requireContains(t, err.Error(), "no build matches")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())

	_, _, err := runCLI(t, env.configPath, "history", "list")
	if err == nil {
		t.Fatal("expected history list to fail when history is disabled")
	}
	requireContains(t, err.Error(), "disabled")
}

func TestBuildRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	input := testsupport.WriteFile(t, filepath.Join(env.baseDir, "broken.psd"), "garbage")
	_, _, _ = runCLI(t, env.configPath, "build", input)

	out, _, err := runCLI(t, env.configPath, "history", "list", "--json")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var builds []history.Build
	if err := json.Unmarshal([]byte(out), &builds); err != nil {
		t.Fatalf("decode builds: %v\n%s", err, out)
	}
	if len(builds) != 1 || builds[0].Outcome != services.OutcomeFailed {
		t.Fatalf("expected one failed build, got %+v", builds)
	}
}
