package traceid

import "context"

type contextKey struct{}

// WithContext stores the trace ID in the context.
func WithContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKey{}, traceID)
}

// FromContext retrieves the trace ID from the context.
// It returns an empty string when no trace ID is set.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(contextKey{}).(string)
	if !ok {
		return ""
	}
	return traceID
}
