package history

import (
	"database/sql"
	"errors"
	"time"

	"layerpage/internal/services"
)

const buildColumns = "run_id, source_path, output_dir, page_path, snapshot_path, outcome, error_message, layer_count, asset_count, background, width, height, started_at, finished_at"

func scanBuild(scanner interface{ Scan(dest ...any) error }) (*Build, error) {
	var (
		runID        string
		sourcePath   string
		outputDir    sql.NullString
		pagePath     sql.NullString
		snapshotPath sql.NullString
		outcome      string
		errorMessage sql.NullString
		layerCount   int
		assetCount   int
		background   sql.NullString
		width        int
		height       int
		startedRaw   string
		finishedRaw  string
	)

	if err := scanner.Scan(
		&runID,
		&sourcePath,
		&outputDir,
		&pagePath,
		&snapshotPath,
		&outcome,
		&errorMessage,
		&layerCount,
		&assetCount,
		&background,
		&width,
		&height,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	build := &Build{
		RunID:        runID,
		SourcePath:   sourcePath,
		OutputDir:    outputDir.String,
		PagePath:     pagePath.String,
		SnapshotPath: snapshotPath.String,
		Outcome:      services.Outcome(outcome),
		ErrorMessage: errorMessage.String,
		LayerCount:   layerCount,
		AssetCount:   assetCount,
		Background:   background.String,
		Width:        width,
		Height:       height,
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		build.StartedAt = started
	}
	if finished, err := parseTimeString(finishedRaw); err == nil {
		build.FinishedAt = finished
	}
	return build, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout keeps a fixed fraction width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(value time.Time) string {
	if value.IsZero() {
		value = time.Now()
	}
	return value.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
