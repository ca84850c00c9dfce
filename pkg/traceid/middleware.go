package traceid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	// Header is the canonical trace propagation header.
	Header = "X-Trace-ID"
	// FallbackHeader is consulted when Header is absent, so callers already
	// propagating request IDs keep their correlation chain.
	FallbackHeader = "X-Request-ID"

	maxIDLength = 128
	idPattern   = "^[a-zA-Z0-9_-]+$"
)

var validIDRegex = regexp.MustCompile(idPattern)

// Middleware resolves a trace ID for each request: an inbound ID from
// X-Trace-ID (or X-Request-ID) is reused when well-formed, otherwise a new
// UUID is generated. The resolved ID is stored in the request context and
// reflected on the response so the caller learns the ID of its own request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(Header)
		if traceID == "" {
			traceID = r.Header.Get(FallbackHeader)
		}
		if !isValidTraceID(traceID) {
			traceID = uuid.New().String()
		}
		w.Header().Set(Header, traceID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), traceID)))
	})
}

func isValidTraceID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validIDRegex.MatchString(id)
}
