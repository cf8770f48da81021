package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"layerpage/internal/config"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	requireContains(t, err.Error(), "already exists")

	if _, _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "History directory")
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateMissingTemplate(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Build.Template = filepath.Join(env.baseDir, "missing.html")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, env.configPath, "config", "validate")
	if err == nil {
		t.Fatal("expected validate to fail for a missing template")
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "missing.html")
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[build]\nasset_workers = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := runCLI(t, env.configPath, "config", "validate")
	if err == nil {
		t.Fatal("expected invalid config to fail")
	}
	requireContains(t, err.Error(), "asset_workers")
}

func TestConfigShowRoundTrips(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var shown config.Config
	if err := toml.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode shown config: %v\n%s", err, out)
	}
	if shown.History.Path != env.cfg.History.Path {
		t.Fatalf("history path = %q, want %q", shown.History.Path, env.cfg.History.Path)
	}
	if shown.Build.AssetWorkers != env.cfg.Build.AssetWorkers {
		t.Fatalf("asset workers = %d, want %d", shown.Build.AssetWorkers, env.cfg.Build.AssetWorkers)
	}
}
