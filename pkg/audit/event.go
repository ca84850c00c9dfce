package audit

import (
	"fmt"
	"strings"
	"time"
)

// Event represents one audited request/response interaction. It carries
// allow-listed metadata only: no request or response body, no credentials.
// An Event is write-once - it is constructed, validated, serialized and
// handed to a sink exactly once, never mutated afterwards.
type Event struct {
	Timestamp    time.Time         `json:"ts" bson:"ts"`
	TraceID      string            `json:"trace_id,omitempty" bson:"trace_id,omitempty"`
	Route        string            `json:"route" bson:"route"`
	Method       string            `json:"method" bson:"method"`
	StatusCode   int               `json:"status_code" bson:"status_code"`
	DurationMS   float64           `json:"duration_ms" bson:"duration_ms"`
	Caller       string            `json:"caller,omitempty" bson:"caller,omitempty"`
	DriftScore   *float64          `json:"drift_score,omitempty" bson:"drift_score,omitempty"`
	RequestMeta  map[string]string `json:"request_meta,omitempty" bson:"request_meta,omitempty"`
	ResponseMeta map[string]string `json:"response_meta,omitempty" bson:"response_meta,omitempty"`
	Notes        string            `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Validate checks that the event satisfies the schema invariants.
// A failed validation means the event must be discarded, never written.
func (e *Event) Validate() error {
	if e.Route == "" {
		return fmt.Errorf("%w: route is required", ErrEventValidation)
	}
	if strings.ContainsAny(e.Route, "?#") {
		return fmt.Errorf("%w: route must not contain a query string or fragment", ErrEventValidation)
	}
	if e.Method == "" {
		return fmt.Errorf("%w: method is required", ErrEventValidation)
	}
	if e.StatusCode < 100 || e.StatusCode > 599 {
		return fmt.Errorf("%w: status code %d is out of range", ErrEventValidation, e.StatusCode)
	}
	if e.DurationMS < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrEventValidation)
	}
	if e.DriftScore != nil && (*e.DriftScore < 0 || *e.DriftScore > 1) {
		return fmt.Errorf("%w: drift score %v is outside [0.0, 1.0]", ErrEventValidation, *e.DriftScore)
	}
	return nil
}

// Score returns a pointer to v for populating the optional DriftScore field.
func Score(v float64) *float64 {
	return &v
}
