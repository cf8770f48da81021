package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Build contains per-invocation defaults for page builds. CLI flags override
// these values for a single run.
type Build struct {
	// Output is the destination directory. Empty means the input file's directory.
	Output string `toml:"output"`
	// Images is the asset subdirectory name under Output.
	Images string `toml:"images"`
	// Template is the page template path. Empty selects the built-in template.
	Template string `toml:"template"`
	// Layer also writes a <basename>.layer snapshot of the layout model.
	Layer bool `toml:"layer"`
	// Name is handed to the template to toggle layer name display.
	Name bool `toml:"name"`
	// AssetWorkers bounds concurrent asset writes within one build.
	AssetWorkers int `toml:"asset_workers"`
}

// History contains configuration for the build history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for layerpage.
//
// Configuration sections by subsystem:
//   - Build: output layout, template, snapshot and name toggles
//   - History: SQLite build history location
//   - Logging: log format, level, and optional file directory
type Config struct {
	Build   Build   `toml:"build"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("layerpage.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates directories the CLI needs before any build runs.
// Output directories are created per build, not here.
func (c *Config) EnsureDirectories() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		dir := filepath.Dir(c.History.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		if err := os.MkdirAll(c.Logging.Dir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Logging.Dir, err)
		}
	}
	return nil
}

// Encode writes the effective configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
