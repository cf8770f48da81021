// Package psddoc adapts decoded Photoshop documents to the flatten.Document
// contract.
//
// Decoding is delegated to github.com/oov/psd. This package walks the layer
// tree top-first, rasterizes layer pickers into NRGBA buffers, and recovers
// text runs from the type tool ("TySh") additional layer info, including the
// font, size and fill color carried in its engine data.
package psddoc
