package audit

import "errors"

var (
	// ErrEventValidation indicates event validation failed
	ErrEventValidation = errors.New("event validation failed")

	// ErrInvalidConfig indicates the audit configuration is out of range
	ErrInvalidConfig = errors.New("invalid audit configuration")

	// ErrSinkUnavailable indicates the sink destination cannot be prepared
	ErrSinkUnavailable = errors.New("sink destination is unavailable")

	// ErrSinkClosed indicates a write was attempted after the sink was closed
	ErrSinkClosed = errors.New("sink is closed")
)
