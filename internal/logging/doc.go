// Package logging builds the slog loggers used across layerpage.
//
// New and NewFromConfig pick a console or JSON handler and fan output out to
// the terminal and an optional log file. The console handler folds the
// component, source document, and layer into a subject prefix so a line
// reads like `Build · hero.psd: build started`. WarnWithContext and
// ErrorWithContext guarantee the event_type/error_hint/impact fields that
// diagnostics rely on.
package logging
