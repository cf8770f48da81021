// Package main hosts the layerpage CLI entrypoint and command graph.
//
// The Cobra command tree turns layered documents into static pages (build),
// previews the flattened layout without writing anything (inspect), and
// exposes build history and configuration scaffolding. Configuration
// resolution, logger setup, and history access live in commandContext so
// subcommands only deal with presentation.
//
// Keep this package thin: pipeline behavior belongs in internal/build and
// the packages it drives.
package main
