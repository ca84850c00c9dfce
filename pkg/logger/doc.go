// Package logger provides a small factory over log/slog with context-aware
// attribute injection, used as the logging facade for the audit components.
//
// The factory produces a *slog.Logger configured with output format, level,
// static attributes and optional context extractors. Extractors pull
// request-scoped values (e.g. a trace ID) out of the context at log time, so
// every record emitted during a request carries its correlation attributes
// without the call sites passing them explicitly.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatJSON),
//	    logger.WithLevel(slog.LevelInfo),
//	    logger.WithAttr(slog.String("service", "api")),
//	    logger.WithContextExtractors(traceid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// The attr helpers (Error, Component, TraceID, Route, StatusCode, Sink) keep
// attribute keys consistent across packages.
package logger
