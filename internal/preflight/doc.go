// Package preflight provides readiness checks for the filesystem paths a
// build depends on.
//
// The build pipeline runs RunAll once the output directory exists and stops
// before decoding anything when a check fails. The CLI "config validate"
// command reuses the same checks to report configured paths.
package preflight
