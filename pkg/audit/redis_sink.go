package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StreamWriter is the subset of *redis.Client used by RedisSink.
type StreamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisSink appends events to a capped Redis stream for consumption by a
// log shipper or analytics consumer group. Compose it behind an AsyncSink so
// a slow or unreachable Redis can never stall the request path.
type RedisSink struct {
	rdb    StreamWriter
	stream string
	maxLen int64
}

// RedisSinkOption configures RedisSink creation.
type RedisSinkOption func(*RedisSink)

// WithRedisStream overrides the default "audit:events" stream key.
func WithRedisStream(stream string) RedisSinkOption {
	return func(s *RedisSink) {
		if stream != "" {
			s.stream = stream
		}
	}
}

// WithRedisMaxLen caps the stream length (approximate trimming).
func WithRedisMaxLen(maxLen int64) RedisSinkOption {
	return func(s *RedisSink) {
		if maxLen > 0 {
			s.maxLen = maxLen
		}
	}
}

// NewRedisSink creates a sink writing through the given stream writer,
// typically a *redis.Client.
func NewRedisSink(rdb StreamWriter, opts ...RedisSinkOption) *RedisSink {
	if rdb == nil {
		panic("audit: redis client cannot be nil")
	}

	s := &RedisSink{
		rdb:    rdb,
		stream: "audit:events",
		maxLen: 100_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write appends one stream entry holding the serialized event plus the
// trace ID as a separate field for consumer-side filtering.
func (s *RedisSink) Write(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	values := map[string]any{"event": payload}
	if event.TraceID != "" {
		values["trace_id"] = event.TraceID
	}

	if err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("append audit event to stream: %w", err)
	}
	return nil
}
