package logging

import (
	"context"
	"log/slog"

	"layerpage/internal/services"
)

// Keys shared by every component.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldSource    = "source"
	FieldLayer     = "layer"
	// FieldPath names the file a log line is about.
	FieldPath = "path"
)

// ContextFields returns the run id, source, and layer stored in ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if source, ok := services.SourceFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSource, source))
	}
	if layer, ok := services.LayerFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldLayer, layer))
	}
	return fields
}

// WithContext returns logger tagged with the fields in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return slog.New(logger.Handler().WithAttrs(fields))
}
