package sink

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Sink is a write-only destination for encoded export output.
//
// Write appends bytes, Flush pushes buffered bytes to the underlying
// destination, and Close signals completion. Close implies a final flush.
// All implementations share these semantics so the export loop can treat
// them interchangeably.
type Sink interface {
	io.Writer

	// Flush pushes any buffered bytes to the underlying destination.
	Flush() error

	// Close flushes and releases the destination. Close is idempotent.
	Close() error
}

// streamSink wraps an io.Writer with buffering. It closes the underlying
// writer on Close only if it is an io.Closer the sink owns.
type streamSink struct {
	bw     *bufio.Writer
	closer io.Closer
	closed bool
}

// Stdout returns a buffered sink writing to standard output.
// Close flushes but does not close the process's stdout.
func Stdout() Sink {
	return &streamSink{bw: bufio.NewWriter(os.Stdout)}
}

// File returns a sink that truncates and writes the file at path.
func File(path string) (Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	return &streamSink{bw: bufio.NewWriter(f), closer: f}, nil
}

func (s *streamSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("write to closed sink")
	}
	return s.bw.Write(p)
}

func (s *streamSink) Flush() error {
	return s.bw.Flush()
}

func (s *streamSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.bw.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Buffer is an in-memory sink that collects everything written to it.
type Buffer struct {
	buf    bytes.Buffer
	closed bool
}

// NewBuffer returns an empty in-memory sink.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Write(p []byte) (int, error) {
	if b.closed {
		return 0, fmt.Errorf("write to closed sink")
	}
	return b.buf.Write(p)
}

// Flush is a no-op for the in-memory sink.
func (b *Buffer) Flush() error { return nil }

// Close marks the buffer complete. The contents remain readable.
func (b *Buffer) Close() error {
	b.closed = true
	return nil
}

// Bytes returns the collected output.
func (b *Buffer) Bytes() []byte { return b.buf.Bytes() }

// String returns the collected output as a string.
func (b *Buffer) String() string { return b.buf.String() }

// Len returns the number of collected bytes.
func (b *Buffer) Len() int { return b.buf.Len() }
