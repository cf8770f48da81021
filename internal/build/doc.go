// Package build runs one page build from a layered document.
//
// A Builder checks the input and template, prepares and locks the output
// directory, decodes the document, flattens it into a layout model while
// writing assets, optionally writes the layout snapshot, renders the page,
// and verifies the page's image references. Every run gets a UUID run ID,
// returns a Result carrying diagnostics, and is recorded in build history
// when a history store is configured.
//
// Missing inputs and templates abort the run before any file is written and
// yield the "skipped" outcome; every other failure yields "failed".
package build
