package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultBufferSize is the I/O buffering granularity for the file sink.
const DefaultBufferSize = 8192

// FileSink appends events to a local file as newline-delimited JSON, one
// record per line. Small writes are batched through a bufio.Writer sized by
// the configured buffer; a mutex serializes whole-line writes so concurrent
// requests never interleave partial records.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

// FileSinkOption configures FileSink creation.
type FileSinkOption func(*fileSinkConfig)

type fileSinkConfig struct {
	bufferSize int
}

// WithBufferSize sets the bufio buffer size. Non-positive values fall back
// to DefaultBufferSize.
func WithBufferSize(size int) FileSinkOption {
	return func(c *fileSinkConfig) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// NewFileSink creates the destination directory if needed and opens the file
// for append. A structural failure (directory cannot be created, file cannot
// be opened) is returned wrapped in ErrSinkUnavailable so the caller can
// degrade to a NullSink.
func NewFileSink(path string, opts ...FileSinkOption) (*FileSink, error) {
	cfg := &fileSinkConfig{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(cfg)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Join(ErrSinkUnavailable, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Join(ErrSinkUnavailable, err)
	}

	return &FileSink{
		file: file,
		buf:  bufio.NewWriterSize(file, cfg.bufferSize),
	}, nil
}

// Write serializes the event and appends it as one line. Serialization
// happens outside the lock; the line write is atomic with respect to other
// writers. Errors are returned to the caller, which owns the fail-open
// logging policy - the sink never retries.
func (s *FileSink) Write(_ context.Context, event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf == nil {
		return ErrSinkClosed
	}
	if _, err := s.buf.Write(line); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// Flush forces buffered records to disk.
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf == nil {
		return ErrSinkClosed
	}
	return s.buf.Flush()
}

// Close flushes buffered records and closes the underlying file.
// Close is idempotent.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf == nil {
		return nil
	}
	flushErr := s.buf.Flush()
	closeErr := s.file.Close()
	s.buf = nil

	return errors.Join(flushErr, closeErr)
}
