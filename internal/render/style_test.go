package render

import (
	"strings"
	"testing"

	"layerpage/internal/layout"
)

func TestLayerStyleSkipsDefaults(t *testing.T) {
	got := string(layerStyle(layout.LayerEntry{Left: 1, Top: 2, Width: 3, Height: 4, Opacity: 1}))
	if got != "left: 1px; top: 2px; width: 3px; height: 4px" {
		t.Fatalf("unexpected style %q", got)
	}
}

func TestLayerStyleSanitizesFontName(t *testing.T) {
	entry := layout.LayerEntry{
		Opacity:  1,
		Text:     &layout.TextRun{Value: "x"},
		FontName: "Evil'; background: red",
	}
	got := string(layerStyle(entry))
	if strings.Contains(got, "Evil'") || strings.Count(got, ";") != 4 {
		t.Fatalf("font name not sanitized: %q", got)
	}
}

func TestBackgroundStyleImage(t *testing.T) {
	m := &layout.Model{Width: 10, Height: 20, Background: &layout.BackgroundEntry{Image: "images/abc.png", Opacity: 0.25}}
	got := string(backgroundStyle(m))
	for _, want := range []string{"url('images/abc.png')", "opacity: 0.25", "height: 20px"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
	if backgroundStyle(&layout.Model{}) != "" {
		t.Fatalf("expected empty style without background")
	}
}

func TestCSSTokenKeepsColorExpressions(t *testing.T) {
	if got := cssToken("rgba(1,2,3,128)"); got != "rgba(1,2,3,128)" {
		t.Fatalf("cssToken = %q", got)
	}
	if got := cssToken("#abc;}"); got != "#abc" {
		t.Fatalf("cssToken = %q", got)
	}
}
