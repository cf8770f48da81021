// Package services defines shared utilities consumed by the build pipeline and
// its collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp build run IDs, source documents, and layer
//     names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history outcomes (succeeded, skipped, failed).
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform across builds.
package services
