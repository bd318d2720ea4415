package services

import "context"

type contextKey string

const (
	batchIDKey   contextKey = "batch_id"
	rowIndexKey  contextKey = "row_index"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithBatchID annotates context with the batch run identifier.
func WithBatchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the batch run identifier if present.
func BatchIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(batchIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRowIndex annotates context with the 1-based manifest row being processed.
func WithRowIndex(ctx context.Context, row int) context.Context {
	if row <= 0 {
		return ctx
	}
	return context.WithValue(ctx, rowIndexKey, row)
}

// RowIndexFromContext extracts the manifest row if present.
func RowIndexFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(rowIndexKey).(int); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// WithStage annotates context with the item stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
