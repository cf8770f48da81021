package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"layerpage/internal/assets"
	"layerpage/internal/fileutil"
	"layerpage/internal/flatten"
	"layerpage/internal/history"
	"layerpage/internal/layout"
	"layerpage/internal/logging"
	"layerpage/internal/preflight"
	"layerpage/internal/psddoc"
	"layerpage/internal/render"
	"layerpage/internal/services"
)

const lockFileName = ".layerpage.lock"

// Builder runs page builds.
type Builder struct {
	logger   *slog.Logger
	history  *history.Store
	open     Opener
	renderer *render.Renderer
	now      func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithOpener replaces the PSD decoder.
func WithOpener(open Opener) Option {
	return func(b *Builder) {
		if open != nil {
			b.open = open
		}
	}
}

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// New constructs a Builder. store may be nil to skip history recording.
func New(logger *slog.Logger, store *history.Store, opts ...Option) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	b := &Builder{
		logger:   logging.NewComponentLogger(logger, "build"),
		history:  store,
		open:     openPSD,
		renderer: render.New(logger),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func openPSD(ctx context.Context, path string) (flatten.Document, error) {
	doc, err := psddoc.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Build runs one build of source. The returned Result is never nil; err
// carries the services marker of the first failure.
func (b *Builder) Build(ctx context.Context, source string, opts Options) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: b.now(),
	}
	ctx = services.WithRunID(ctx, result.RunID)
	ctx = services.WithSource(ctx, filepath.Base(source))
	logger := logging.WithContext(ctx, b.logger)

	err := b.run(ctx, logger, result, opts)
	return b.finish(ctx, logger, result, err)
}

func (b *Builder) run(ctx context.Context, logger *slog.Logger, result *Result, opts Options) error {
	source, err := filepath.Abs(result.Source)
	if err != nil {
		return services.Wrap(services.ErrMissingInput, "build", "resolve input", result.Source, err)
	}
	result.Source = source

	if ok, err := fileutil.Exists(source); err != nil || !ok {
		result.warn("missing_input", "input file not found", source)
		return services.Wrap(services.ErrMissingInput, "build", "check input", source, err)
	}
	if opts.Template != "" {
		if ok, err := fileutil.Exists(opts.Template); err != nil || !ok {
			result.warn("missing_template", "template file not found", opts.Template)
			return services.Wrap(services.ErrMissingTemplate, "build", "check template", opts.Template, err)
		}
	}

	output := opts.Output
	if output == "" {
		output = filepath.Dir(source)
	}
	if output, err = filepath.Abs(output); err != nil {
		return services.Wrap(services.ErrConfiguration, "build", "resolve output", opts.Output, err)
	}
	result.OutputDir = output
	images := opts.Images
	if images == "" {
		images = "images"
	}
	if err := os.MkdirAll(filepath.Join(output, filepath.FromSlash(images)), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "build", "create output", output, err)
	}

	checks := preflight.RunAll(preflight.Targets{Input: source, Template: opts.Template, Output: output})
	if failed := preflight.Failed(checks); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, f := range failed {
			details = append(details, f.Name+": "+f.Detail)
		}
		return services.Wrap(services.ErrConfiguration, "build", "preflight", strings.Join(details, "; "), nil)
	}

	lock := flock.New(filepath.Join(output, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "build", "lock output", output, err)
	}
	if !locked {
		return services.Wrap(services.ErrOutputLocked, "build", "lock output", "another build is writing "+output, nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	logger.Info("build started",
		logging.String(logging.FieldEventType, "build_start"),
		logging.String("output", output),
	)

	doc, err := b.open(ctx, source)
	if err != nil {
		if !errors.Is(err, services.ErrParse) && !errors.Is(err, services.ErrMissingInput) {
			err = services.Wrap(services.ErrParse, "build", "decode", source, err)
		}
		return err
	}

	writer := assets.NewFileWriter(output, logger)
	flattener := flatten.New(writer, logger, flatten.Options{ImagesDir: images, AssetWorkers: opts.AssetWorkers})
	flat, err := flattener.Flatten(ctx, filepath.Base(source), doc)
	if err != nil {
		return err
	}
	result.Model = flat.Model
	result.Assets = flat.Assets

	if opts.Layer {
		snapshot := filepath.Join(output, layout.SnapshotName(source))
		if err := layout.WriteSnapshot(snapshot, flat.Model); err != nil {
			return services.Wrap(services.ErrRender, "build", "write snapshot", snapshot, err)
		}
		result.SnapshotPath = snapshot
	}

	page := filepath.Join(output, layout.PageName(source))
	if existed, _ := fileutil.Exists(page); existed {
		result.warn("page_overwrite", "existing page replaced", page)
	}
	if err := b.renderer.Render(ctx, opts.Template, page, render.NewContext(flat.Model, output, opts.Name)); err != nil {
		return err
	}
	result.PagePath = page

	missing, err := render.CheckReferences(page, output)
	if err != nil {
		result.warn("reference_check", fmt.Sprintf("could not verify page references: %v", err), page)
		return nil
	}
	for _, ref := range missing {
		result.warn("missing_reference", "page references a file that was not written", ref)
	}
	return nil
}

func (b *Builder) finish(ctx context.Context, logger *slog.Logger, result *Result, err error) (*Result, error) {
	result.FinishedAt = b.now()
	result.Outcome = services.OutcomeFor(err)

	switch result.Outcome {
	case services.OutcomeSucceeded:
		logger.Info("build completed",
			logging.String(logging.FieldEventType, "build_complete"),
			logging.String(logging.FieldPath, result.PagePath),
			logging.Int("layers", len(result.Model.Layers)),
			logging.Int("assets", len(result.Assets)),
			logging.Int("warnings", len(result.Warnings())),
			logging.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
		)
	case services.OutcomeSkipped:
		result.Error = err.Error()
		logging.WarnWithContext(logger, "build skipped", "build_skipped",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no output written for this input"),
			logging.String(logging.FieldErrorHint, "check the input and template paths"),
		)
	default:
		result.Error = err.Error()
		result.fail("build_failure", err.Error(), result.Source)
		logging.ErrorWithContext(logger, "build failed", "build_failure",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, failureHint(err)),
		)
	}

	b.record(ctx, logger, result)
	return result, err
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrOutputLocked):
		return "wait for the other build or pick another output directory"
	case errors.Is(err, services.ErrParse):
		return "confirm the input is a valid layered document"
	case errors.Is(err, services.ErrAssetWrite):
		return "check free space and permissions in the output directory"
	case errors.Is(err, services.ErrRender):
		return "check the page template for errors"
	case errors.Is(err, services.ErrConfiguration):
		return "check the output directory and config values"
	default:
		return "check logs for details"
	}
}

func (b *Builder) record(ctx context.Context, logger *slog.Logger, result *Result) {
	if b.history == nil {
		return
	}
	entry := history.Build{
		RunID:        result.RunID,
		SourcePath:   result.Source,
		OutputDir:    result.OutputDir,
		PagePath:     result.PagePath,
		SnapshotPath: result.SnapshotPath,
		Outcome:      result.Outcome,
		ErrorMessage: result.Error,
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
	}
	if m := result.Model; m != nil {
		entry.LayerCount = len(m.Layers)
		entry.Width = m.Width
		entry.Height = m.Height
		if bg := m.Background; bg != nil {
			entry.Background = bg.Color
			if entry.Background == "" {
				entry.Background = bg.Image
			}
		}
	}
	recorded := make([]history.Asset, 0, len(result.Assets))
	for _, a := range result.Assets {
		recorded = append(recorded, history.Asset{Fingerprint: a.Fingerprint, Path: a.Path, Layer: a.Layer})
	}
	if err := b.history.Record(ctx, entry, recorded); err != nil {
		logging.WarnWithContext(logger, "failed to record build history", "history_record",
			logging.Error(err),
			logging.String(logging.FieldImpact, "build is missing from history"),
			logging.String(logging.FieldErrorHint, "check history.path permissions"),
		)
	}
}
