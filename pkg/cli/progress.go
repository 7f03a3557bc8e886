package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressReporter reports per-index progress for an export whose total
// size is unknown up front.
type ProgressReporter interface {
	Update(index string, documents int64)
	Finish()
}

// countProgress renders a single updating line of document counts.
// Output goes to stderr by default so it never interleaves with exported
// data on stdout.
type countProgress struct {
	mu      sync.Mutex
	writer  io.Writer
	started time.Time
	index   string
	count   int64
	dirty   bool
}

// NewProgressReporter creates a progress reporter writing to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &countProgress{
		writer:  w,
		started: time.Now(),
	}
}

// Update renders the current index and its running document count.
func (p *countProgress) Update(index string, documents int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.index = index
	p.count = documents
	p.dirty = true

	rate := float64(documents) / time.Since(p.started).Seconds()
	fmt.Fprintf(p.writer, "\r%s: %d documents (%.0f docs/s)", index, documents, rate)
}

// Finish terminates the progress line.
func (p *countProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dirty {
		fmt.Fprintln(p.writer)
		p.dirty = false
	}
}

// NopProgress discards all progress updates. Used when output goes to
// stdout and any extra terminal writes are unwanted.
type NopProgress struct{}

func (NopProgress) Update(string, int64) {}
func (NopProgress) Finish()              {}
