package audit

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/auditkit/pkg/logger"
)

// Sink persists audit events. Implementations must serialize concurrent
// writes themselves; the middleware calls Write from every request goroutine.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

var (
	_ Sink = NullSink{}
	_ Sink = (*FileSink)(nil)
	_ Sink = (*AsyncSink)(nil)
	_ Sink = (*PostgresSink)(nil)
	_ Sink = (*RedisSink)(nil)
	_ Sink = (*MongoSink)(nil)
)

// NullSink discards every event. It is the fallback destination when the
// configured sink cannot be prepared, keeping the middleware fail-open.
type NullSink struct{}

func (NullSink) Write(context.Context, Event) error { return nil }

// NewSink opens the file sink described by cfg. When the destination cannot
// be prepared (directory creation or open fails), it logs the degradation
// once and returns a NullSink for the remainder of the process lifetime.
func NewSink(cfg Config, log *slog.Logger) Sink {
	if log == nil {
		log = slog.Default()
	}

	sink, err := NewFileSink(cfg.LogPath, WithBufferSize(cfg.BufferSize))
	if err != nil {
		log.Warn("audit sink degraded: events will be discarded",
			logger.Component("audit"),
			logger.Error(err),
			slog.String("path", cfg.LogPath),
		)
		return NullSink{}
	}
	return sink
}
