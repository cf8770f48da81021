// Package render turns a flattened layout model into an HTML page.
//
// Pages are produced with html/template from either the embedded default
// template or a user supplied one. Templates receive a Context and the
// style helpers registered by Funcs. After rendering, CheckReferences parses
// the written page and reports image references with no file behind them.
package render
