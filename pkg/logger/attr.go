package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// TraceID records the trace identifier under the key "trace_id".
// If id is empty, it returns an empty Attr.
func TraceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("trace_id", id)
}

// Route records the request path under the key "route".
func Route(route string) slog.Attr {
	return slog.String("route", route)
}

// StatusCode records the response status under the key "status_code".
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Sink records the sink name under the key "sink".
func Sink(name string) slog.Attr {
	return slog.String("sink", name)
}
