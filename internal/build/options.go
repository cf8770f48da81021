package build

import (
	"context"
	"time"

	"layerpage/internal/config"
	"layerpage/internal/flatten"
	"layerpage/internal/layout"
	"layerpage/internal/services"
)

// Options controls a single build.
type Options struct {
	// Output is the destination directory. Empty uses the input's directory.
	Output string
	// Images is the asset subdirectory under Output.
	Images string
	// Template is the page template. Empty uses the built-in page.
	Template string
	// Layer also writes the layout snapshot.
	Layer bool
	// Name toggles layer name labels in the page.
	Name bool
	// AssetWorkers bounds concurrent asset writes.
	AssetWorkers int
}

// OptionsFromConfig returns the build defaults carried by cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Options{
		Output:       cfg.Build.Output,
		Images:       cfg.Build.Images,
		Template:     cfg.Build.Template,
		Layer:        cfg.Build.Layer,
		Name:         cfg.Build.Name,
		AssetWorkers: cfg.Build.AssetWorkers,
	}
}

// Opener decodes the document at path.
type Opener func(ctx context.Context, path string) (flatten.Document, error)

// Diagnostic is a warning or error raised during a build.
type Diagnostic struct {
	Level     string `json:"level"`
	EventType string `json:"event_type"`
	Message   string `json:"message"`
	Path      string `json:"path,omitempty"`
}

const (
	LevelWarn  = "warn"
	LevelError = "error"
)

// Result describes a finished build.
type Result struct {
	RunID        string           `json:"run_id"`
	Source       string           `json:"source"`
	OutputDir    string           `json:"output_dir,omitempty"`
	PagePath     string           `json:"page_path,omitempty"`
	SnapshotPath string           `json:"snapshot_path,omitempty"`
	Outcome      services.Outcome `json:"outcome"`
	Error        string           `json:"error,omitempty"`
	Model        *layout.Model    `json:"model,omitempty"`
	Assets       []flatten.Asset  `json:"assets,omitempty"`
	Diagnostics  []Diagnostic     `json:"diagnostics,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
}

func (r *Result) warn(eventType, message, path string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Level: LevelWarn, EventType: eventType, Message: message, Path: path})
}

func (r *Result) fail(eventType, message, path string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Level: LevelError, EventType: eventType, Message: message, Path: path})
}

// Warnings returns the warning diagnostics.
func (r *Result) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Level == LevelWarn {
			out = append(out, d)
		}
	}
	return out
}
