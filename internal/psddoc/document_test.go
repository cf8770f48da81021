package psddoc

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/oov/psd"

	"layerpage/internal/services"
)

func TestNewDocumentOrdersTopFirst(t *testing.T) {
	img := &psd.PSD{
		Config: psd.Config{Rect: image.Rect(0, 0, 120, 80)},
		Layer: []psd.Layer{
			{Name: "Background", Rect: image.Rect(0, 0, 120, 80), Opacity: 255},
			{
				Name: "Group",
				Layer: []psd.Layer{
					{Name: "Lower", Rect: image.Rect(0, 0, 10, 10), Opacity: 255},
					{Name: "Upper", Rect: image.Rect(5, 5, 15, 15), Opacity: 128},
				},
			},
		},
	}
	doc, err := newDocument(img)
	if err != nil {
		t.Fatalf("newDocument: %v", err)
	}
	if w, h := doc.Size(); w != 120 || h != 80 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
	var names []string
	for _, n := range doc.Descendants() {
		names = append(names, n.Export().Name)
	}
	want := []string{"Group", "Upper", "Lower", "Background"}
	if len(names) != len(want) {
		t.Fatalf("unexpected descendants %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("descendants = %v, want %v", names, want)
		}
	}
	if !doc.Descendants()[0].IsGroup() || doc.Descendants()[1].IsGroup() {
		t.Fatalf("group detection failed")
	}
	upper := doc.Descendants()[1].Export()
	if upper.Left != 5 || upper.Top != 5 || upper.Width != 10 || upper.Height != 10 {
		t.Fatalf("unexpected box %+v", upper)
	}
	if upper.Opacity < 0.50 || upper.Opacity > 0.51 {
		t.Fatalf("unexpected opacity %v", upper.Opacity)
	}
}

func TestRasterizeCopiesPicker(t *testing.T) {
	rect := image.Rect(10, 20, 12, 22)
	picker := image.NewNRGBA(rect)
	picker.SetNRGBA(11, 21, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	n, err := newNode(&psd.Layer{Name: "px", Rect: rect, Opacity: 255, Picker: picker})
	if err != nil {
		t.Fatalf("newNode: %v", err)
	}
	out, err := n.Rasterize()
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if got := out.NRGBAAt(1, 1); got != (color.NRGBA{R: 9, G: 8, B: 7, A: 255}) {
		t.Fatalf("unexpected pixel %v", got)
	}
	if got := out.NRGBAAt(0, 0); got.A != 0 {
		t.Fatalf("expected transparent pixel, got %v", got)
	}
}

func TestRasterizeWithoutPicker(t *testing.T) {
	n, err := newNode(&psd.Layer{Name: "empty", Rect: image.Rect(0, 0, 3, 3)})
	if err != nil {
		t.Fatalf("newNode: %v", err)
	}
	out, err := n.Rasterize()
	if err != nil || out.Bounds().Dx() != 3 {
		t.Fatalf("Rasterize = %v, %v", out, err)
	}
}

func TestNewNodeParsesText(t *testing.T) {
	layer := &psd.Layer{
		Name: "Title",
		Rect: image.Rect(0, 0, 100, 50),
		AdditionalLayerInfo: map[psd.AdditionalInfoKey][]byte{
			typeToolKey: typeToolBlob([6]float64{1, 0, 0, 1, 0, 0}, "Hi", sampleEngine("Hi")),
		},
	}
	n, err := newNode(layer)
	if err != nil {
		t.Fatalf("newNode: %v", err)
	}
	info := n.Export()
	if !info.IsText() || info.Text.Value != "Hi" || info.Text.Font.Name != "Arial(Bold)" {
		t.Fatalf("unexpected text %+v", info.Text)
	}

	layer.AdditionalLayerInfo[typeToolKey] = []byte{1}
	if _, err := newNode(layer); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "absent.psd"))
	if !errors.Is(err, services.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Open(context.Background(), writeGarbage(t))
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func writeGarbage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "garbage.psd")
	if err := os.WriteFile(path, []byte("not a psd"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}
