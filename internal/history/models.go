package history

import (
	"time"

	"layerpage/internal/services"
)

// Build is one recorded build run.
type Build struct {
	RunID        string           `json:"run_id"`
	SourcePath   string           `json:"source_path"`
	OutputDir    string           `json:"output_dir,omitempty"`
	PagePath     string           `json:"page_path,omitempty"`
	SnapshotPath string           `json:"snapshot_path,omitempty"`
	Outcome      services.Outcome `json:"outcome"`
	ErrorMessage string           `json:"error_message,omitempty"`
	LayerCount   int              `json:"layer_count"`
	AssetCount   int              `json:"asset_count"`
	// Background is the resolved background color, the background image
	// path, or empty when the page has no background slot.
	Background string    `json:"background,omitempty"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration reports how long the build ran.
func (b *Build) Duration() time.Duration {
	if b == nil || b.FinishedAt.Before(b.StartedAt) {
		return 0
	}
	return b.FinishedAt.Sub(b.StartedAt)
}

// Asset is one image written by a build.
type Asset struct {
	Fingerprint string `json:"fingerprint"`
	Path        string `json:"path"`
	Layer       string `json:"layer,omitempty"`
}
