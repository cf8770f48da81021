package flatten

import (
	"context"
	"image"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"layerpage/internal/layout"
	"layerpage/internal/logging"
	"layerpage/internal/services"
)

const defaultAssetWorkers = 4

// Options tunes a Flattener.
type Options struct {
	// ImagesDir is the asset directory relative to the output directory.
	ImagesDir string
	// AssetWorkers bounds concurrent asset writes. Zero uses the default.
	AssetWorkers int
}

// Asset is a raster scheduled for writing during a build.
type Asset struct {
	Fingerprint string
	Path        string
	Layer       string
}

// Result is the assembled layout plus the assets written to produce it.
type Result struct {
	Model  *layout.Model
	Assets []Asset
}

// Flattener walks a document and assembles its layout model.
type Flattener struct {
	writer  AssetWriter
	logger  *slog.Logger
	images  string
	workers int
}

// New constructs a Flattener that writes assets through writer.
func New(writer AssetWriter, logger *slog.Logger, opts Options) *Flattener {
	images := opts.ImagesDir
	if images == "" {
		images = "images"
	}
	workers := opts.AssetWorkers
	if workers <= 0 {
		workers = defaultAssetWorkers
	}
	return &Flattener{
		writer:  writer,
		logger:  logging.NewComponentLogger(logger, "flatten"),
		images:  images,
		workers: workers,
	}
}

// run holds the state scoped to a single Flatten call.
type run struct {
	ctx    context.Context
	model  *layout.Model
	seen   map[string]bool
	assets []Asset
	writes errgroup.Group
	// slots bounds writes in flight. Acquired inside each write goroutine
	// so scheduling never stalls classification.
	slots chan struct{}
}

// Flatten classifies every descendant of doc in traversal order and returns
// the assembled model once all scheduled asset writes have completed.
func (f *Flattener) Flatten(ctx context.Context, name string, doc Document) (*Result, error) {
	if doc == nil {
		return nil, services.Wrap(services.ErrParse, "flatten", "document", "no document", nil)
	}
	width, height := doc.Size()
	r := &run{
		ctx: ctx,
		model: &layout.Model{
			Name:   name,
			Width:  width,
			Height: height,
			Layers: []layout.LayerEntry{},
		},
		seen:  make(map[string]bool),
		slots: make(chan struct{}, f.workers),
	}

	logger := logging.WithContext(ctx, f.logger)
	descendants := doc.Descendants()
	last := len(descendants) - 1
	for index, node := range descendants {
		if err := f.visit(r, node, index == last); err != nil {
			// Writes already scheduled still finish; their files stay on disk.
			_ = r.writes.Wait()
			return nil, err
		}
	}

	if err := r.writes.Wait(); err != nil {
		return nil, err
	}

	slices.Reverse(r.model.Layers)
	logger.Debug("layout assembled",
		logging.Int("layers", len(r.model.Layers)),
		logging.Int("assets", len(r.assets)),
		logging.Bool("background", r.model.Background != nil),
	)
	return &Result{Model: r.model, Assets: r.assets}, nil
}

func (f *Flattener) visit(r *run, node Node, isLast bool) error {
	if node == nil || node.IsGroup() || node.Hidden() {
		return nil
	}
	info := node.Export()
	if info.Width <= 0 || info.Height <= 0 {
		return nil
	}
	logger := logging.WithContext(services.WithLayer(r.ctx, info.Name), f.logger)

	img, err := node.Rasterize()
	if err != nil {
		return services.Wrap(services.ErrParse, "flatten", "rasterize", info.Name, err)
	}
	pixels := PixelBuffer(img)

	bg := DetectBackground(info, pixels, isLast, r.model.Width, r.model.Height)
	if bg.Color != "" {
		logger.Debug("background resolved to color", logging.String("color", bg.Color))
		r.model.Background = &layout.BackgroundEntry{
			Name:    info.Name,
			Color:   bg.Color,
			Opacity: info.Opacity,
			Text:    info.Text,
		}
		return nil
	}

	fingerprint := Fingerprint(pixels)
	imagePath := ImagePath(f.images, fingerprint)
	if !r.seen[fingerprint] {
		r.seen[fingerprint] = true
		if !info.IsText() {
			f.scheduleWrite(r, logger, Asset{Fingerprint: fingerprint, Path: imagePath, Layer: info.Name}, img)
		}
	} else {
		logger.Debug("reusing asset", logging.String(logging.FieldPath, imagePath))
	}

	if bg.IsBackground {
		logger.Debug("background kept as image", logging.String(logging.FieldPath, imagePath))
		r.model.Background = &layout.BackgroundEntry{
			Name:    info.Name,
			Image:   imagePath,
			Opacity: info.Opacity,
			Text:    info.Text,
		}
		return nil
	}

	r.model.Layers = append(r.model.Layers, newLayerEntry(info, imagePath))
	return nil
}

func (f *Flattener) scheduleWrite(r *run, logger *slog.Logger, asset Asset, img image.Image) {
	r.assets = append(r.assets, asset)
	if f.writer == nil {
		return
	}
	r.writes.Go(func() error {
		r.slots <- struct{}{}
		defer func() { <-r.slots }()
		if err := f.writer.WriteAsset(r.ctx, asset.Path, img); err != nil {
			return services.Wrap(services.ErrAssetWrite, "flatten", "write asset", asset.Path, err)
		}
		logger.Debug("asset written", logging.String(logging.FieldPath, asset.Path))
		return nil
	})
}

func newLayerEntry(info layout.NodeInfo, imagePath string) layout.LayerEntry {
	entry := layout.LayerEntry{
		Name:    info.Name,
		Image:   imagePath,
		Left:    info.Left,
		Top:     info.Top,
		Width:   info.Width,
		Height:  info.Height,
		Opacity: info.Opacity,
		Data:    info,
		Text:    info.Text,
	}
	if info.Text == nil || info.Text.Font == nil {
		return entry
	}
	font := info.Text.Font
	entry.FontName = font.Name
	if len(font.Colors) > 0 {
		entry.FontColor = ToColorExpression(font.Colors[0])
	}
	if len(font.Sizes) > 0 {
		entry.FontSize = font.Sizes[0]
	}
	if info.Text.Transform != nil {
		entry.Rotate = DecodeRotation(*info.Text.Transform)
	}
	return entry
}
