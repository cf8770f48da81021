// Package flatten turns a layered document tree into a layout.Model plus a
// deduplicated set of raster assets.
//
// The Flattener walks the document's descendants in traversal order and
// classifies each visible, non-empty, non-group node:
//
//   - the last node, when it covers the whole canvas, is the background slot;
//     a uniform raster (every pixel within 5 per channel of its predecessor)
//     collapses to a color and produces no asset
//   - every other node is fingerprinted by its pixels and mapped to
//     images/<fingerprint[1:7]>.png; identical rasters share one file
//   - text nodes keep an image reference but never get a file written, their
//     look comes from font metadata
//
// Layer entries end up in reverse traversal order, which is the paint order
// the page template relies on. Asset writes run concurrently and are joined
// before the model is returned; any write failure fails the whole build.
//
// The helpers that feed the flattener (ToColorExpression, DecodeRotation,
// Fingerprint, DetectBackground) are exported so they can be exercised on
// their own.
package flatten
