package audit

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

// Default header allow-lists. Callers are identified by organization or API
// key identifier headers, never by credentials themselves. Metadata maps only
// ever contain headers from these fixed sets; everything else is dropped
// silently.
var (
	defaultCallerHeaders = []string{"X-Org-ID", "X-Caller-ID", "X-API-Key-ID"}

	defaultTraceHeaders = []string{"X-Trace-ID", "X-Request-ID"}

	defaultRequestMetaHeaders = []string{
		"Content-Type",
		"Content-Length",
		"Accept",
		"User-Agent",
	}

	defaultResponseMetaHeaders = []string{
		"Content-Type",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
	}
)

// deniedHeaders can never be extracted, even when explicitly configured.
var deniedHeaders = map[string]struct{}{
	"Authorization":       {},
	"Proxy-Authorization": {},
	"Cookie":              {},
	"Set-Cookie":          {},
	"X-Api-Key":           {},
}

// routeFromRequest returns the path component of the request URL only.
// Query strings and fragments never reach the audit record.
func routeFromRequest(r *http.Request) string {
	route := r.URL.Path
	// URL.Path is already query-free for parsed requests; the guard covers
	// hand-constructed requests with a raw path.
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if route == "" {
		route = "/"
	}
	return route
}

// firstHeaderMatch returns the first non-empty, well-formed value among the
// named headers. Malformed values are treated as absent.
func firstHeaderMatch(h http.Header, names []string) string {
	for _, name := range names {
		v := strings.TrimSpace(h.Get(name))
		if v == "" || !utf8.ValidString(v) {
			continue
		}
		if _, denied := deniedHeaders[http.CanonicalHeaderKey(name)]; denied {
			continue
		}
		return v
	}
	return ""
}

// headerMeta intersects the actual headers with the allow-list and returns
// the matches keyed by canonical header name. Headers outside the allow-list
// and credential headers are dropped without logging.
func headerMeta(h http.Header, allow []string) map[string]string {
	if len(allow) == 0 {
		return nil
	}
	var meta map[string]string
	for _, name := range allow {
		key := http.CanonicalHeaderKey(name)
		if _, denied := deniedHeaders[key]; denied {
			continue
		}
		v := strings.TrimSpace(h.Get(name))
		if v == "" || !utf8.ValidString(v) {
			continue
		}
		if meta == nil {
			meta = make(map[string]string, len(allow))
		}
		meta[key] = v
	}
	return meta
}
