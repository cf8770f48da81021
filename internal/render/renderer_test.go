package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"layerpage/internal/layout"
	"layerpage/internal/logging"
	"layerpage/internal/services"
)

func sampleModel() *layout.Model {
	return &layout.Model{
		Name:   "hero-banner",
		Width:  200,
		Height: 100,
		Layers: []layout.LayerEntry{
			{Name: "Logo", Image: "images/aaaaaa.png", Left: 5, Top: 6, Width: 20, Height: 10, Opacity: 0.5},
			{
				Name:      "Title",
				Image:     "images/bbbbbb.png",
				Left:      10,
				Top:       20,
				Width:     100,
				Height:    50,
				Opacity:   1,
				Text:      &layout.TextRun{Value: "Hello <world>"},
				FontName:  "Arial",
				FontColor: "#000",
				FontSize:  24,
				Rotate:    90,
			},
		},
		Background: &layout.BackgroundEntry{Name: "Background", Color: "#999", Opacity: 1},
	}
}

func renderToString(t *testing.T, templatePath string, data Context) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "page.html")
	if err := New(logging.NewNop()).Render(context.Background(), templatePath, out, data); err != nil {
		t.Fatalf("Render: %v", err)
	}
	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(body)
}

func TestRenderBuiltinTemplate(t *testing.T) {
	page := renderToString(t, "", NewContext(sampleModel(), "/tmp/out", false))
	for _, want := range []string{
		"<title>Hero Banner</title>",
		`src="images/aaaaaa.png"`,
		"opacity: 0.5",
		"Arial",
		"font-size: 24px",
		"rotate(90deg)",
		"background-color: #999",
		"Hello &lt;world&gt;",
		"width: 200px",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in page:\n%s", want, page)
		}
	}
	if strings.Contains(page, "images/bbbbbb.png") {
		t.Fatalf("text layers should render as text, not images")
	}
	if strings.Contains(page, `class="layer-name"`) {
		t.Fatalf("names rendered without EnableName")
	}
	if strings.Index(page, "Logo") > strings.Index(page, "Title") {
		t.Fatalf("layers rendered out of paint order")
	}
}

func TestRenderWithNames(t *testing.T) {
	page := renderToString(t, "", NewContext(sampleModel(), "/tmp/out", true))
	if strings.Count(page, `class="layer-name"`) != 2 {
		t.Fatalf("expected two name labels:\n%s", page)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.html")
	body := `<p>{{.Title}} {{len .Page.Layers}} {{.Output}}</p><div style="{{layerStyle (index .Page.Layers 0)}}"></div>`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	page := renderToString(t, path, NewContext(sampleModel(), "/srv/site", false))
	if !strings.Contains(page, "<p>Hero Banner 2 /srv/site</p>") {
		t.Fatalf("unexpected page %q", page)
	}
	if !strings.Contains(page, "left: 5px") {
		t.Fatalf("style helper not applied: %q", page)
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "page.html")
	err := New(logging.NewNop()).Render(context.Background(), filepath.Join(t.TempDir(), "nope.html"), out, NewContext(sampleModel(), "", false))
	if !errors.Is(err, services.ErrMissingTemplate) {
		t.Fatalf("expected ErrMissingTemplate, got %v", err)
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Fatalf("no page should be written")
	}
}

func TestRenderBrokenTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.html")
	if err := os.WriteFile(path, []byte("{{.Nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, services.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"hero-banner":        "Hero Banner",
		"landing_page":       "Landing Page",
		"":                   "Untitled",
		"x":                  "X",
		"hero.psd":           "Hero",
		"hero-banner.v2.psd": "Hero Banner V2",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Fatalf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheckReferences(t *testing.T) {
	dir := t.TempDir()
	model := sampleModel()
	model.Background = &layout.BackgroundEntry{Name: "Photo", Image: "images/cccccc.png", Opacity: 1}
	pagePath := filepath.Join(dir, "hero.html")
	if err := New(logging.NewNop()).Render(context.Background(), "", pagePath, NewContext(model, dir, false)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "images", "aaaaaa.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	missing, err := CheckReferences(pagePath, dir)
	if err != nil {
		t.Fatalf("CheckReferences: %v", err)
	}
	if len(missing) != 1 || missing[0] != "images/cccccc.png" {
		t.Fatalf("unexpected missing refs %v", missing)
	}
}

func TestCheckReferencesIgnoresRemote(t *testing.T) {
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "p.html")
	body := `<img src="https://example.com/a.png"><img src="data:image/png;base64,AAAA"><div style="background-image: url('/abs.png')"></div>`
	if err := os.WriteFile(pagePath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	missing, err := CheckReferences(pagePath, dir)
	if err != nil {
		t.Fatalf("CheckReferences: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected no local refs, got %v", missing)
	}
}
