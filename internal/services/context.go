package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	sourceKey contextKey = "source"
	layerKey  contextKey = "layer"
)

// WithRunID annotates context with the build run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the build run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSource annotates context with the source document name.
func WithSource(ctx context.Context, source string) context.Context {
	if source == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFromContext returns the source document name if present.
func SourceFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(sourceKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithLayer annotates context with the layer currently being processed.
func WithLayer(ctx context.Context, layer string) context.Context {
	if layer == "" {
		return ctx
	}
	return context.WithValue(ctx, layerKey, layer)
}

// LayerFromContext returns the layer name if present.
func LayerFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(layerKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
