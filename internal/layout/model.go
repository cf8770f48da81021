package layout

// Transform is the affine transform attached to a text run.
type Transform struct {
	XX float64 `json:"xx"`
	XY float64 `json:"xy"`
	YX float64 `json:"yx"`
	YY float64 `json:"yy"`
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
}

// Font describes the style runs of a text layer. Sizes and Colors hold one
// value per style run; Colors are RGBA channel values.
type Font struct {
	Name   string     `json:"name"`
	Sizes  []float64  `json:"sizes"`
	Colors [][4]uint8 `json:"colors"`
}

// TextRun is the text payload of a type layer.
type TextRun struct {
	Value     string     `json:"value"`
	Font      *Font      `json:"font,omitempty"`
	Transform *Transform `json:"transform,omitempty"`
}

// NodeInfo is the exported metadata of one document node. Fields the
// pipeline does not interpret travel in Extra untouched.
type NodeInfo struct {
	Name    string         `json:"name"`
	Left    int            `json:"left"`
	Top     int            `json:"top"`
	Right   int            `json:"right"`
	Bottom  int            `json:"bottom"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Opacity float64        `json:"opacity"`
	Visible bool           `json:"visible"`
	Text    *TextRun       `json:"text,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// IsText reports whether the node carries a text run.
func (n NodeInfo) IsText() bool {
	return n.Text != nil
}

// LayerEntry is one positioned layer of the page. Image is empty when no
// raster reference was assigned.
type LayerEntry struct {
	Name      string   `json:"name"`
	Image     string   `json:"image,omitempty"`
	Left      int      `json:"left"`
	Top       int      `json:"top"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Opacity   float64  `json:"opacity"`
	Data      NodeInfo `json:"data"`
	Text      *TextRun `json:"text,omitempty"`
	FontName  string   `json:"fontName"`
	FontColor string   `json:"fontColor"`
	FontSize  float64  `json:"fontSize"`
	Rotate    int      `json:"rotate"`
}

// BackgroundEntry describes the bottom full-canvas layer. Color and Image are
// mutually exclusive: a uniform background resolves to Color, anything else
// keeps an Image reference.
type BackgroundEntry struct {
	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Image   string   `json:"image,omitempty"`
	Opacity float64  `json:"opacity"`
	Text    *TextRun `json:"text,omitempty"`
}

// Model is the flattened page: layers are in paint order, first entry is
// painted first.
type Model struct {
	Name       string           `json:"name"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Layers     []LayerEntry     `json:"layers"`
	Background *BackgroundEntry `json:"background,omitempty"`
}

// ImageRefs returns every distinct image reference in the model, background
// first, in paint order.
func (m *Model) ImageRefs() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var refs []string
	add := func(ref string) {
		if ref == "" {
			return
		}
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	if m.Background != nil {
		add(m.Background.Image)
	}
	for _, layer := range m.Layers {
		add(layer.Image)
	}
	return refs
}
