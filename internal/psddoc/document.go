package psddoc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"

	"github.com/oov/psd"
	"golang.org/x/image/draw"

	"layerpage/internal/flatten"
	"layerpage/internal/layout"
	"layerpage/internal/services"
)

// Document is a decoded PSD file.
type Document struct {
	width  int
	height int
	nodes  []flatten.Node
}

// Open decodes the document at path.
func Open(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrMissingInput, "parse", "open", path, err)
		}
		return nil, services.Wrap(services.ErrParse, "parse", "open", path, err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

// Decode reads a document from r. The composite image is skipped.
func Decode(r io.Reader) (*Document, error) {
	img, _, err := psd.Decode(r, &psd.DecodeOptions{SkipMergedImage: true})
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "parse", "decode", "", err)
	}
	return newDocument(img)
}

func newDocument(img *psd.PSD) (*Document, error) {
	bounds := img.Config.Rect
	doc := &Document{width: bounds.Dx(), height: bounds.Dy()}
	if err := doc.collect(img.Layer); err != nil {
		return nil, err
	}
	return doc, nil
}

// collect appends the layers top-first, each group ahead of its children.
// oov/psd keeps every level bottom-first, in file order.
func (d *Document) collect(layers []psd.Layer) error {
	for i := len(layers) - 1; i >= 0; i-- {
		layer := &layers[i]
		n, err := newNode(layer)
		if err != nil {
			return err
		}
		d.nodes = append(d.nodes, n)
		if len(layer.Layer) > 0 {
			if err := d.collect(layer.Layer); err != nil {
				return err
			}
		}
	}
	return nil
}

// Size returns the canvas dimensions.
func (d *Document) Size() (int, int) { return d.width, d.height }

// Descendants returns every layer top-first.
func (d *Document) Descendants() []flatten.Node { return d.nodes }

type node struct {
	layer *psd.Layer
	group bool
	info  layout.NodeInfo
}

func newNode(layer *psd.Layer) (*node, error) {
	rect := layer.Rect
	info := layout.NodeInfo{
		Name:    layer.Name,
		Left:    rect.Min.X,
		Top:     rect.Min.Y,
		Right:   rect.Max.X,
		Bottom:  rect.Max.Y,
		Width:   rect.Dx(),
		Height:  rect.Dy(),
		Opacity: float64(layer.Opacity) / 255,
		Visible: layer.Visible(),
		Extra: map[string]any{
			"blendMode": fmt.Sprint(layer.BlendMode),
		},
	}
	if raw, ok := layer.AdditionalLayerInfo[typeToolKey]; ok {
		run, err := ParseTypeTool(raw)
		if err != nil {
			return nil, services.Wrap(services.ErrParse, "parse", "type tool", layer.Name, err)
		}
		info.Text = run
	}
	return &node{
		layer: layer,
		group: layer.Folder() || len(layer.Layer) > 0,
		info:  info,
	}, nil
}

func (n *node) IsGroup() bool { return n.group }

func (n *node) Hidden() bool { return !n.info.Visible }

func (n *node) Export() layout.NodeInfo { return n.info }

// Rasterize copies the layer picker into a buffer positioned at the origin.
// Layers without pixel data rasterize fully transparent.
func (n *node) Rasterize() (*image.NRGBA, error) {
	rect := n.layer.Rect
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	if n.layer.Picker == nil {
		return dst, nil
	}
	draw.Draw(dst, dst.Bounds(), n.layer.Picker, rect.Min, draw.Src)
	return dst, nil
}
