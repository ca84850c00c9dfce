package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/auditkit/pkg/logger"
)

// DefaultQueueSize is the bounded capacity of the async sink queue.
const DefaultQueueSize = 1024

// AsyncSink decouples event dispatch from the wrapped sink through a bounded
// queue with a single background writer. It changes the failure model from
// synchronous fail-open to asynchronous with explicit loss accounting: when
// the queue is full the newest event is dropped, the drop counter is
// incremented and a warning is logged with the running total.
//
// Use it in front of network-backed sinks (Postgres, Redis, Mongo) so a slow
// destination can never stall the request path.
type AsyncSink struct {
	next Sink
	ch   chan Event
	done chan struct{}
	wg   sync.WaitGroup
	log  *slog.Logger

	closed      atomic.Bool
	dropped     atomic.Uint64
	nextFailing bool
}

// NewAsyncSink wraps next with a bounded queue of the given size and starts
// the background writer. Non-positive sizes fall back to DefaultQueueSize.
func NewAsyncSink(next Sink, queueSize int, log *slog.Logger) *AsyncSink {
	if next == nil {
		panic("audit: next sink cannot be nil")
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = slog.Default()
	}

	s := &AsyncSink{
		next: next,
		ch:   make(chan Event, queueSize),
		done: make(chan struct{}),
		log:  log,
	}

	s.wg.Add(1)
	go s.worker()

	return s
}

// Write enqueues the event without blocking. A full queue drops the event
// (drop-newest) rather than applying backpressure to the request path.
func (s *AsyncSink) Write(_ context.Context, event Event) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}

	select {
	case s.ch <- event:
		return nil
	default:
		total := s.dropped.Add(1)
		s.log.Warn("audit event dropped: queue full",
			logger.Component("audit"),
			slog.Uint64("dropped_total", total),
		)
		return nil
	}
}

// Dropped reports how many events were lost to queue overflow.
func (s *AsyncSink) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *AsyncSink) worker() {
	defer s.wg.Done()

	write := func(event Event) {
		// The request that produced the event is long gone; storage runs
		// against the background context.
		err := s.next.Write(context.Background(), event)
		if err != nil && !s.nextFailing {
			s.log.Warn("audit event write failed", logger.Component("audit"), logger.Error(err))
		}
		s.nextFailing = err != nil
	}

	for {
		select {
		case event := <-s.ch:
			write(event)
		case <-s.done:
			// Drain whatever is already queued, then exit.
			for {
				select {
				case event := <-s.ch:
					write(event)
				default:
					return
				}
			}
		}
	}
}

// Close stops the background writer after draining the queue. The context
// bounds the shutdown: when it expires before the drain completes, queued
// events may be lost and the context error is returned.
func (s *AsyncSink) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
