package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool used by PostgresSink.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresSink inserts one row per event into an append-only table. The
// metadata maps are stored as JSONB. Compose it behind an AsyncSink so
// database latency stays off the request path.
//
// Expected schema:
//
//	CREATE TABLE audit_events (
//	    ts            TIMESTAMPTZ      NOT NULL,
//	    trace_id      TEXT,
//	    route         TEXT             NOT NULL,
//	    method        TEXT             NOT NULL,
//	    status_code   INT              NOT NULL,
//	    duration_ms   DOUBLE PRECISION NOT NULL,
//	    caller        TEXT,
//	    drift_score   DOUBLE PRECISION,
//	    request_meta  JSONB,
//	    response_meta JSONB,
//	    notes         TEXT
//	);
type PostgresSink struct {
	db    Execer
	query string
}

// PostgresSinkOption configures PostgresSink creation.
type PostgresSinkOption func(*postgresSinkConfig)

type postgresSinkConfig struct {
	table string
}

// WithPostgresTable overrides the default "audit_events" table name.
func WithPostgresTable(name string) PostgresSinkOption {
	return func(c *postgresSinkConfig) {
		if name != "" {
			c.table = name
		}
	}
}

// NewPostgresSink creates a sink writing through the given executor,
// typically a *pgxpool.Pool.
func NewPostgresSink(db Execer, opts ...PostgresSinkOption) *PostgresSink {
	if db == nil {
		panic("audit: database executor cannot be nil")
	}

	cfg := &postgresSinkConfig{table: "audit_events"}
	for _, opt := range opts {
		opt(cfg)
	}

	return &PostgresSink{
		db: db,
		query: fmt.Sprintf(
			`INSERT INTO %s (ts, trace_id, route, method, status_code, duration_ms, caller, drift_score, request_meta, response_meta, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			cfg.table,
		),
	}
}

// Write inserts the event. Errors are returned to the caller, which owns the
// fail-open logging policy.
func (s *PostgresSink) Write(ctx context.Context, event Event) error {
	requestMeta, err := json.Marshal(event.RequestMeta)
	if err != nil {
		return fmt.Errorf("marshal request meta: %w", err)
	}
	responseMeta, err := json.Marshal(event.ResponseMeta)
	if err != nil {
		return fmt.Errorf("marshal response meta: %w", err)
	}

	if _, err := s.db.Exec(ctx, s.query,
		event.Timestamp,
		nullable(event.TraceID),
		event.Route,
		event.Method,
		event.StatusCode,
		event.DurationMS,
		nullable(event.Caller),
		event.DriftScore,
		requestMeta,
		responseMeta,
		nullable(event.Notes),
	); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
