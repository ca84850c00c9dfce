// Package traceid provides HTTP middleware for trace ID propagation.
//
// The middleware accepts an externally supplied trace identifier from the
// X-Trace-ID header (falling back to X-Request-ID), validates it, and
// generates a new UUID only when the caller did not supply a usable one.
// The resolved ID is stored in the request context and echoed back on the
// response.
//
// Downstream components never generate identifiers themselves; they read the
// propagated value through FromContext or the Extractor helpers:
//
//	r.Use(traceid.Middleware)
//
//	// audit middleware
//	audit.WithTraceExtractor(traceid.Extractor())
//
//	// slog factory
//	logger.WithContextExtractors(traceid.LoggerExtractor())
//
// Inbound IDs are restricted to [a-zA-Z0-9_-]{1,128}; anything else is
// replaced to keep log injection and header abuse out of correlation chains.
package traceid
