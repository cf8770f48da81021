package testsupport

import (
	"path/filepath"
	"testing"

	"layerpage/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Build.AssetWorkers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOutput sets the build output directory to a folder under the test root.
func WithOutput(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Build.Output = filepath.Join(b.baseDir, name)
	}
}

// WithHistoryDisabled turns off build history recording.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithSnapshot enables the layout snapshot.
func WithSnapshot() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Build.Layer = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.History.Path))
}
