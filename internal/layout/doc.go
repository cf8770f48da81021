// Package layout defines the layout model produced by flattening a layered
// document: the canvas, the ordered layer entries, and the optional
// background. It also reads and writes the `.layer` snapshot, which is the
// model serialized as indented JSON.
//
// A Model is assembled once per build and is not mutated afterwards; callers
// that need to adjust entries should copy them.
package layout
