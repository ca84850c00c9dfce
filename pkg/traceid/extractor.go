package traceid

import (
	"context"
	"log/slog"
)

// Extractor returns a context extractor in the (value, found) form used by
// consumers such as the audit middleware.
func Extractor() func(ctx context.Context) (string, bool) {
	return func(ctx context.Context) (string, bool) {
		if traceID := FromContext(ctx); traceID != "" {
			return traceID, true
		}
		return "", false
	}
}

// LoggerExtractor returns a ContextExtractor for the logger.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if traceID := FromContext(ctx); traceID != "" {
			return slog.String("trace_id", traceID), true
		}
		return slog.Attr{}, false
	}
}
