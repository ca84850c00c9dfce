package audit

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/auditkit/pkg/logger"
)

// contextExtractor extracts string values from context.
// It returns (value, found) where found indicates if extraction succeeded.
type contextExtractor func(context.Context) (string, bool)

// DriftScorer supplies an externally computed anomaly score for an event.
// The second return value indicates whether the event was evaluated at all;
// an absent score means "not evaluated", not "zero risk".
type DriftScorer func(event Event) (float64, bool)

type middleware struct {
	cfg  Config
	sink Sink
	log  *slog.Logger

	callerHeaders       []string
	traceHeaders        []string
	requestMetaHeaders  []string
	responseMetaHeaders []string
	callerExtractor     contextExtractor
	traceExtractor      contextExtractor
	scorer              DriftScorer
	sample              func() float64

	sinkFailing atomic.Bool
}

// Option configures the audit middleware.
type Option func(*middleware)

// WithLogger sets the logger for warning/error reporting.
func WithLogger(log *slog.Logger) Option {
	return func(m *middleware) {
		if log != nil {
			m.log = log
		}
	}
}

// WithCallerHeaders replaces the ordered caller identity header list.
func WithCallerHeaders(names ...string) Option {
	return func(m *middleware) {
		if len(names) > 0 {
			m.callerHeaders = names
		}
	}
}

// WithTraceHeaders replaces the ordered trace propagation header list.
func WithTraceHeaders(names ...string) Option {
	return func(m *middleware) {
		if len(names) > 0 {
			m.traceHeaders = names
		}
	}
}

// WithRequestMetaHeaders replaces the request header allow-list.
// Credential headers remain denied regardless of this list.
func WithRequestMetaHeaders(names ...string) Option {
	return func(m *middleware) {
		m.requestMetaHeaders = names
	}
}

// WithResponseMetaHeaders replaces the response header allow-list.
// Credential headers remain denied regardless of this list.
func WithResponseMetaHeaders(names ...string) Option {
	return func(m *middleware) {
		m.responseMetaHeaders = names
	}
}

// WithCallerExtractor registers a context extractor for the caller identity,
// typically fed by the authentication middleware upstream. It takes
// precedence over the caller header list.
func WithCallerExtractor(fn func(context.Context) (string, bool)) Option {
	return func(m *middleware) {
		m.callerExtractor = fn
	}
}

// WithTraceExtractor registers a context extractor for the trace ID, e.g.
// traceid.Extractor(). It takes precedence over the trace header list.
func WithTraceExtractor(fn func(context.Context) (string, bool)) Option {
	return func(m *middleware) {
		m.traceExtractor = fn
	}
}

// WithDriftScorer registers an external anomaly scorer. Scores outside
// [0.0, 1.0] fail event validation and the event is discarded with a logged
// warning; the response is never affected.
func WithDriftScorer(fn DriftScorer) Option {
	return func(m *middleware) {
		m.scorer = fn
	}
}

// WithSampleFunc replaces the sampling randomness source. Intended for
// deterministic tests and custom samplers; values must be in [0.0, 1.0).
func WithSampleFunc(fn func() float64) Option {
	return func(m *middleware) {
		if fn != nil {
			m.sample = fn
		}
	}
}

// Middleware returns an HTTP middleware that records one audit event per
// observed request/response pair without affecting the response.
//
// When cfg.Enabled is false the returned middleware is the identity
// function: the next handler is returned untouched, with no timer, no
// extraction and no per-request allocations.
//
// Timing uses the monotonic clock. Event construction and sink dispatch run
// in a deferred block, so an event is recorded even when the downstream
// handler panics (the panic is re-raised after recording) or the client
// cancels the request. Every failure on the audit path - extraction,
// validation, scoring, sink I/O - is absorbed and logged; nothing can reach
// the response path.
func Middleware(cfg Config, sink Sink, opts ...Option) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	if sink == nil {
		sink = NullSink{}
	}

	m := &middleware{
		cfg:                 cfg,
		sink:                sink,
		log:                 slog.Default(),
		callerHeaders:       defaultCallerHeaders,
		traceHeaders:        defaultTraceHeaders,
		requestMetaHeaders:  defaultRequestMetaHeaders,
		responseMetaHeaders: defaultResponseMetaHeaders,
		sample:              rand.Float64,
	}
	for _, opt := range opts {
		opt(m)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			defer func() {
				pv := recover()
				m.record(r, rec, time.Since(start), pv != nil)
				if pv != nil {
					panic(pv)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// record builds, validates and dispatches the event for one request. It runs
// inside the middleware's deferred block and absorbs every failure,
// including panics on the audit path itself.
func (m *middleware) record(r *http.Request, rec *statusRecorder, elapsed time.Duration, panicked bool) {
	defer func() {
		if p := recover(); p != nil {
			m.log.Error("audit recording panicked",
				logger.Component("audit"), slog.Any("panic", p))
		}
	}()

	status := rec.Status()
	if panicked && !rec.wroteHeader {
		status = http.StatusInternalServerError
	}

	// Error responses are always audited; successful ones are sampled.
	if status < http.StatusBadRequest && m.sample() >= m.cfg.SampleRate {
		return
	}

	event := Event{
		Timestamp:    time.Now().UTC(),
		Route:        routeFromRequest(r),
		Method:       r.Method,
		StatusCode:   status,
		DurationMS:   float64(elapsed) / float64(time.Millisecond),
		RequestMeta:  headerMeta(r.Header, m.requestMetaHeaders),
		ResponseMeta: headerMeta(rec.Header(), m.responseMetaHeaders),
	}

	if m.callerExtractor != nil {
		if caller, ok := m.callerExtractor(r.Context()); ok {
			event.Caller = caller
		}
	}
	if event.Caller == "" {
		event.Caller = firstHeaderMatch(r.Header, m.callerHeaders)
	}

	if m.traceExtractor != nil {
		if traceID, ok := m.traceExtractor(r.Context()); ok {
			event.TraceID = traceID
		}
	}
	if event.TraceID == "" {
		event.TraceID = firstHeaderMatch(r.Header, m.traceHeaders)
	}

	if panicked {
		event.Notes = "handler panic"
	}

	if m.scorer != nil {
		if score, ok := m.scorer(event); ok {
			event.DriftScore = &score
		}
	}

	if err := event.Validate(); err != nil {
		m.log.Warn("audit event discarded",
			logger.Component("audit"),
			logger.Error(err),
			logger.Route(event.Route),
		)
		return
	}

	// The sink write must survive client cancellation; it either completes
	// quickly or fails through the fail-open path below.
	if err := m.sink.Write(context.WithoutCancel(r.Context()), event); err != nil {
		if m.sinkFailing.CompareAndSwap(false, true) {
			m.log.Warn("audit event write failed",
				logger.Component("audit"),
				logger.Error(err),
				logger.Route(event.Route),
				logger.StatusCode(status),
			)
		}
		return
	}
	m.sinkFailing.Store(false)
}

// statusRecorder captures the status code written by the downstream handler
// while delegating everything else to the wrapped writer. Unwrap keeps
// http.ResponseController features (flush, hijack, deadlines) working.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.status = http.StatusOK
		r.wroteHeader = true
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Status reports the final response status, defaulting to 200 when the
// handler returned without writing, matching net/http behavior.
func (r *statusRecorder) Status() int {
	if !r.wroteHeader {
		return http.StatusOK
	}
	return r.status
}
