package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dmitrymomot/auditkit/pkg/audit"
	"github.com/dmitrymomot/auditkit/pkg/logger"
)

// testLogger returns a logger that discards output, keeping test logs quiet.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return logger.New(logger.WithOutput(io.Discard))
}

// memorySink collects events in memory for assertions.
type memorySink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *memorySink) Write(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *memorySink) Events() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event(nil), s.events...)
}

// failingSink rejects every write.
type failingSink struct{}

func (failingSink) Write(context.Context, audit.Event) error {
	return errors.New("disk full")
}

// blockingSink blocks writes until released, for queue overflow tests.
type blockingSink struct {
	release chan struct{}
}

func newBlockingSink() *blockingSink {
	return &blockingSink{release: make(chan struct{})}
}

func (s *blockingSink) Write(context.Context, audit.Event) error {
	<-s.release
	return nil
}
