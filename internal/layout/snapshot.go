package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"layerpage/internal/fileutil"
)

const (
	snapshotExt = ".layer"
	pageExt     = ".html"
)

// BaseName strips the directory and extension from a source document path.
func BaseName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SnapshotName returns the snapshot file name for a source document.
func SnapshotName(source string) string {
	return BaseName(source) + snapshotExt
}

// PageName returns the rendered page file name for a source document.
func PageName(source string) string {
	return BaseName(source) + pageExt
}

// MarshalSnapshot serializes the model with two-space indentation.
func MarshalSnapshot(m *Model) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("marshal snapshot: nil model")
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// WriteSnapshot writes the model to path.
func WriteSnapshot(path string, m *Model) error {
	data, err := MarshalSnapshot(m)
	if err != nil {
		return err
	}
	err = fileutil.WriteStream(path, 0o644, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads a model previously written by WriteSnapshot.
func ReadSnapshot(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if m.Layers == nil {
		m.Layers = []LayerEntry{}
	}
	return &m, nil
}
