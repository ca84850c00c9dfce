package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/auditkit/pkg/audit"
)

func TestAsyncSink(t *testing.T) {
	t.Parallel()

	t.Run("delivers events to the wrapped sink", func(t *testing.T) {
		t.Parallel()
		mem := &memorySink{}
		sink := audit.NewAsyncSink(mem, 16, testLogger(t))

		for range 5 {
			require.NoError(t, sink.Write(t.Context(), validEvent()))
		}
		require.NoError(t, sink.Close(t.Context()))

		assert.Len(t, mem.Events(), 5)
		assert.Zero(t, sink.Dropped())
	})

	t.Run("drops newest events when the queue is full", func(t *testing.T) {
		t.Parallel()
		blocking := newBlockingSink()
		sink := audit.NewAsyncSink(blocking, 1, testLogger(t))
		t.Cleanup(func() {
			close(blocking.release)
			_ = sink.Close(context.Background())
		})

		// The worker parks on the first event; the second fills the queue;
		// everything after that must drop without blocking.
		for range 10 {
			require.NoError(t, sink.Write(t.Context(), validEvent()))
		}

		assert.GreaterOrEqual(t, sink.Dropped(), uint64(1))
	})

	t.Run("close drains queued events", func(t *testing.T) {
		t.Parallel()
		mem := &memorySink{}
		sink := audit.NewAsyncSink(mem, 100, testLogger(t))

		for range 50 {
			require.NoError(t, sink.Write(t.Context(), validEvent()))
		}
		require.NoError(t, sink.Close(t.Context()))

		assert.Len(t, mem.Events(), 50)
	})

	t.Run("write after close returns ErrSinkClosed", func(t *testing.T) {
		t.Parallel()
		sink := audit.NewAsyncSink(&memorySink{}, 4, testLogger(t))
		require.NoError(t, sink.Close(t.Context()))

		assert.ErrorIs(t, sink.Write(t.Context(), validEvent()), audit.ErrSinkClosed)
	})

	t.Run("close respects context deadline while the sink is stuck", func(t *testing.T) {
		t.Parallel()
		blocking := newBlockingSink()
		sink := audit.NewAsyncSink(blocking, 4, testLogger(t))
		t.Cleanup(func() { close(blocking.release) })

		require.NoError(t, sink.Write(t.Context(), validEvent()))

		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, sink.Close(ctx), context.DeadlineExceeded)
	})

	t.Run("absorbs wrapped sink failures", func(t *testing.T) {
		t.Parallel()
		sink := audit.NewAsyncSink(failingSink{}, 8, testLogger(t))

		require.NoError(t, sink.Write(t.Context(), validEvent()))
		require.NoError(t, sink.Close(t.Context()))
	})

	t.Run("panics on nil sink", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			audit.NewAsyncSink(nil, 4, testLogger(t))
		})
	})
}
