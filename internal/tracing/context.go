package tracing

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// TraceIDKey is the context key for trace ID.
	TraceIDKey ContextKey = "trace_id"
	// SessionIDKey is the context key for session ID.
	SessionIDKey ContextKey = "session_id"
	// BatchIDKey is the context key for batch correlation ID.
	BatchIDKey ContextKey = "batch_id"
)

// NewTraceID generates a new trace ID.
func NewTraceID() string {
	return uuid.New().String()
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// TraceIDFromContext extracts the trace ID, generating one if absent.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok && id != "" {
		return id
	}
	return NewTraceID()
}

// WithSessionID adds a session ID to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// SessionIDFromContext extracts the session ID, if present.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// WithBatchID adds a batch correlation ID to the context.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, BatchIDKey, batchID)
}

// BatchIDFromContext extracts the batch correlation ID, if present.
func BatchIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(BatchIDKey).(string)
	return id
}
