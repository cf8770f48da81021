// Package assets persists layer rasters as PNG files under an output root.
package assets

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"layerpage/internal/fileutil"
	"layerpage/internal/logging"
)

// FileWriter writes assets beneath Root.
type FileWriter struct {
	Root    string
	logger  *slog.Logger
	encoder png.Encoder
}

// NewFileWriter returns a writer rooted at the output directory.
func NewFileWriter(root string, logger *slog.Logger) *FileWriter {
	return &FileWriter{
		Root:    root,
		logger:  logging.NewComponentLogger(logger, "assets"),
		encoder: png.Encoder{CompressionLevel: png.BestCompression},
	}
}

// WriteAsset encodes img as PNG at relPath. relPath uses forward slashes and
// must stay inside Root. An existing file is replaced with a warning.
func (w *FileWriter) WriteAsset(ctx context.Context, relPath string, img image.Image) error {
	dst, err := w.resolve(relPath)
	if err != nil {
		return err
	}
	if exists, err := fileutil.Exists(dst); err != nil {
		return fmt.Errorf("stat asset %s: %w", dst, err)
	} else if exists {
		logging.WarnWithContext(logging.WithContext(ctx, w.logger), "overwriting existing asset", "asset_overwrite",
			logging.String(logging.FieldPath, dst),
			logging.String(logging.FieldImpact, "previous image replaced"),
			logging.String(logging.FieldErrorHint, "use a fresh output directory to keep earlier builds"),
		)
	}
	return fileutil.WriteStream(dst, 0o644, func(out io.Writer) error {
		return w.encoder.Encode(out, img)
	})
}

func (w *FileWriter) resolve(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if relPath == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("asset path %q escapes output directory", relPath)
	}
	return filepath.Join(w.Root, clean), nil
}

// Discard accepts every asset without writing it.
type Discard struct{}

// WriteAsset does nothing.
func (Discard) WriteAsset(context.Context, string, image.Image) error { return nil }
