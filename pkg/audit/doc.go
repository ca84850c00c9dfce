// Package audit provides a failure-safe request/response audit middleware
// for net/http services. It observes every inbound request and outgoing
// response, extracts non-sensitive allow-listed metadata, and durably
// appends it as one structured event per line - without altering response
// behavior, blocking a request, or ever touching a body.
//
// The emitted records feed security analytics, anomaly/drift scoring and
// regulatory transparency reporting downstream; this package only produces
// them.
//
// # Architecture
//
//   - Event - immutable, schema-validated record of one interaction
//
//   - Extractor - pure allow-list extraction of routes, caller identity,
//     trace IDs and header metadata; bodies are never read
//
//   - Sink - append-only persistence (file NDJSON, Postgres, Redis stream,
//     Mongo) with a bounded async wrapper
//
//   - Middleware - times the downstream call, captures the status code,
//     builds the event and dispatches it to the sink
//
//     request ──► Middleware ──► downstream handler
//     │                              │
//     │ timer, status        response unchanged
//     ▼                              ▼
//     Extractor ──► Event ──► Sink      caller
//
// # Fail-open contract
//
// Nothing in this package may affect the HTTP response path. Extraction
// failures leave fields absent; validation failures discard the event with a
// logged warning; sink I/O failures are absorbed and logged, never retried;
// a destination that cannot be prepared at startup degrades to a discard
// sink for the process lifetime. The cost of this design is potential event
// loss under disk exhaustion or permission errors - an explicit tradeoff,
// not an oversight.
//
// # Usage
//
//	log := logger.New(logger.WithContextExtractors(traceid.LoggerExtractor()))
//
//	cfg := audit.LoadConfig(log)       // AUDIT_* environment variables
//	sink := audit.NewSink(cfg, log)    // NDJSON file, NullSink fallback
//
//	r := chi.NewRouter()
//	r.Use(traceid.Middleware)
//	r.Use(audit.Middleware(cfg, sink,
//	    audit.WithLogger(log),
//	    audit.WithTraceExtractor(traceid.Extractor()),
//	))
//
// With auditing disabled (the default) the middleware returns the next
// handler untouched - zero overhead, verified by tests.
//
// # Output format
//
// The file sink emits newline-delimited JSON, UTF-8, one object per line
// with the fields ts, trace_id, route, method, status_code, duration_ms,
// caller, drift_score, request_meta, response_meta, notes. Each line is
// independently parseable, so a truncated final line after a crash never
// corrupts preceding records and any line-oriented tool (jq, log shippers,
// ETL jobs) can stream the file.
//
// # Sampling
//
// AUDIT_SAMPLE_RATE controls the fraction of successful (status < 400)
// requests that are audited. Error responses are always recorded, so
// sampling reduces sink pressure under high volume while keeping complete
// error visibility.
//
// # Network sinks
//
// PostgresSink, RedisSink and MongoSink target remote destinations and
// should be composed behind NewAsyncSink, which bounds the queue and drops
// the newest event on overflow with explicit loss accounting (a warning plus
// a running drop counter). This is a deliberate reinterpretation of the
// fail-open contract for networked targets: fire-and-forget with a bounded,
// non-blocking send.
//
// # Security Considerations
//
//   - Bodies are never read; privacy holds by construction, not by filtering
//   - Header extraction is allow-list only; Authorization, Cookie,
//     Set-Cookie and API key headers are denied even when configured
//   - Routes are recorded without query strings or fragments
//   - Retention and rotation of the emitted records is the host's concern
package audit
