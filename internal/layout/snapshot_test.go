package layout_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"layerpage/internal/layout"
)

func TestNamesStripDirectoryAndExtension(t *testing.T) {
	source := filepath.Join("designs", "hero.banner.psd")
	if got := layout.SnapshotName(source); got != "hero.banner.layer" {
		t.Fatalf("unexpected snapshot name: %q", got)
	}
	if got := layout.PageName(source); got != "hero.banner.html" {
		t.Fatalf("unexpected page name: %q", got)
	}
}

func TestSnapshotPreservesModel(t *testing.T) {
	model := &layout.Model{
		Name:   "hero.psd",
		Width:  640,
		Height: 480,
		Layers: []layout.LayerEntry{
			{
				Name: "Title", Image: "images/bc1234.png", Left: 10, Top: 20, Width: 100, Height: 50, Opacity: 1,
				FontName: "Arial", FontColor: "#000", FontSize: 24, Rotate: 90,
				Text: &layout.TextRun{Value: "Hello", Font: &layout.Font{Name: "Arial", Sizes: []float64{24}, Colors: [][4]uint8{{0, 0, 0, 255}}}},
			},
		},
		Background: &layout.BackgroundEntry{Name: "Background", Color: "#ccc", Opacity: 1},
	}

	path := filepath.Join(t.TempDir(), "hero.layer")
	if err := layout.WriteSnapshot(path, model); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"name\": \"hero.psd\"") {
		t.Fatalf("expected two-space indented JSON, got %s", raw)
	}
	if !strings.Contains(string(raw), `"fontName": "Arial"`) {
		t.Fatalf("expected camel-case font fields, got %s", raw)
	}

	loaded, err := layout.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if loaded.Background == nil || loaded.Background.Color != "#ccc" {
		t.Fatalf("unexpected background: %+v", loaded.Background)
	}
	if len(loaded.Layers) != 1 || loaded.Layers[0].Rotate != 90 || loaded.Layers[0].Text.Font.Colors[0] != [4]uint8{0, 0, 0, 255} {
		t.Fatalf("unexpected layers: %+v", loaded.Layers)
	}
}

func TestEmptyModelSerializesEmptyLayerList(t *testing.T) {
	data, err := layout.MarshalSnapshot(&layout.Model{Name: "empty.psd", Layers: []layout.LayerEntry{}})
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	if !strings.Contains(string(data), `"layers": []`) {
		t.Fatalf("expected empty layer list, got %s", data)
	}
	if strings.Contains(string(data), "background") {
		t.Fatalf("expected background omitted, got %s", data)
	}
}

func TestImageRefsDeduplicates(t *testing.T) {
	model := &layout.Model{
		Layers: []layout.LayerEntry{
			{Name: "a", Image: "images/aaaaaa.png"},
			{Name: "b", Image: "images/aaaaaa.png"},
			{Name: "c"},
			{Name: "d", Image: "images/dddddd.png"},
		},
		Background: &layout.BackgroundEntry{Name: "bg", Image: "images/bbbbbb.png"},
	}
	refs := model.ImageRefs()
	want := []string{"images/bbbbbb.png", "images/aaaaaa.png", "images/dddddd.png"}
	if len(refs) != len(want) {
		t.Fatalf("expected %v, got %v", want, refs)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, refs)
		}
	}
}
