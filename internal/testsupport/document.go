package testsupport

import (
	"context"
	"image"
	"image/color"
	"sort"
	"sync"

	"layerpage/internal/flatten"
	"layerpage/internal/layout"
)

// FakeNode is an in-memory document node with a fixed raster.
type FakeNode struct {
	Info       layout.NodeInfo
	Group      bool
	Invisible  bool
	Image      *image.NRGBA
	RasterErr  error
	Rasterized int

	// OnRasterize, when set, runs at the start of every Rasterize call.
	OnRasterize func()
}

func (n *FakeNode) IsGroup() bool { return n.Group }

func (n *FakeNode) Hidden() bool { return n.Invisible }

func (n *FakeNode) Export() layout.NodeInfo { return n.Info }

func (n *FakeNode) Rasterize() (*image.NRGBA, error) {
	n.Rasterized++
	if n.OnRasterize != nil {
		n.OnRasterize()
	}
	if n.RasterErr != nil {
		return nil, n.RasterErr
	}
	if n.Image != nil {
		return n.Image, nil
	}
	return SolidImage(n.Info.Width, n.Info.Height, color.NRGBA{A: 255}), nil
}

// FakeDocument is an in-memory flatten.Document. Nodes are listed in
// traversal order.
type FakeDocument struct {
	Width  int
	Height int
	Nodes  []*FakeNode
}

// Size returns the canvas dimensions.
func (d *FakeDocument) Size() (int, int) { return d.Width, d.Height }

// Descendants returns the nodes in traversal order.
func (d *FakeDocument) Descendants() []flatten.Node {
	nodes := make([]flatten.Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// NewLayer builds a visible pixel layer at the given box filled with fill.
func NewLayer(name string, left, top, width, height int, fill color.NRGBA) *FakeNode {
	return &FakeNode{
		Info: layout.NodeInfo{
			Name:    name,
			Left:    left,
			Top:     top,
			Right:   left + width,
			Bottom:  top + height,
			Width:   width,
			Height:  height,
			Opacity: 1,
			Visible: true,
		},
		Image: SolidImage(width, height, fill),
	}
}

// NewTextLayer builds a visible type layer.
func NewTextLayer(name string, left, top, width, height int, text layout.TextRun) *FakeNode {
	node := NewLayer(name, left, top, width, height, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	node.Info.Text = &text
	return node
}

// SolidImage returns a width x height raster filled with c.
func SolidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// GradientImage returns a raster whose red channel climbs by step per pixel.
func GradientImage(width, height int, step uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	var red uint8
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: red, A: 255})
			red += step
		}
	}
	return img
}

// RecordingWriter captures asset writes in memory.
type RecordingWriter struct {
	Err error

	mu     sync.Mutex
	writes map[string]int
}

// WriteAsset records the path and returns Err.
func (w *RecordingWriter) WriteAsset(_ context.Context, relPath string, _ image.Image) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writes == nil {
		w.writes = make(map[string]int)
	}
	w.writes[relPath]++
	return w.Err
}

// Paths returns the written paths sorted.
func (w *RecordingWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.writes))
	for p := range w.writes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Count returns how many times relPath was written.
func (w *RecordingWriter) Count(relPath string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes[relPath]
}

// GatedWriter blocks every write until Gate is closed and tracks how many
// writes were in flight at once.
type GatedWriter struct {
	Gate chan struct{}

	mu       sync.Mutex
	inFlight int
	peak     int
	done     int
}

// NewGatedWriter returns a writer whose gate starts closed.
func NewGatedWriter() *GatedWriter {
	return &GatedWriter{Gate: make(chan struct{})}
}

// WriteAsset waits for the gate or ctx.
func (w *GatedWriter) WriteAsset(ctx context.Context, _ string, _ image.Image) error {
	w.mu.Lock()
	w.inFlight++
	w.peak = max(w.peak, w.inFlight)
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.inFlight--
		w.done++
		w.mu.Unlock()
	}()

	select {
	case <-w.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Peak returns the most writes observed in flight at once.
func (w *GatedWriter) Peak() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.peak
}

// Done returns the number of finished writes.
func (w *GatedWriter) Done() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}
