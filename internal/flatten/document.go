package flatten

import (
	"context"
	"image"

	"layerpage/internal/layout"
)

// Node is one entry of a layered document tree.
type Node interface {
	IsGroup() bool
	Hidden() bool
	// Export returns the node's metadata.
	Export() layout.NodeInfo
	// Rasterize renders the node to a non-premultiplied RGBA image sized to
	// the node's box.
	Rasterize() (*image.NRGBA, error)
}

// Document is a parsed layered document.
type Document interface {
	// Size returns the canvas dimensions.
	Size() (width, height int)
	// Descendants returns every node of the tree in traversal order,
	// topmost first, groups included.
	Descendants() []Node
}

// AssetWriter persists a raster under a path relative to the output directory.
type AssetWriter interface {
	WriteAsset(ctx context.Context, relPath string, img image.Image) error
}
