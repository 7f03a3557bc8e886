package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/driftbyte/esdump/pkg/bulk"
	"github.com/driftbyte/esdump/pkg/sink"
)

// Options holds the tunables of an export run.
type Options struct {
	// BatchSize is the maximum page size requested from the backend.
	BatchSize int

	// KeepAlive is the snapshot keep-alive duration in backend syntax.
	KeepAlive string
}

// Observer receives export lifecycle events. Implementations must be
// cheap; the exporter calls them synchronously between pages.
type Observer interface {
	PageFetched(index string, documents int, elapsed time.Duration)
	IndexFailed(index, reason string)
	BytesWritten(n int64)
}

// Progress receives per-index document counts for user-facing progress
// reporting.
type Progress interface {
	Update(index string, documents int64)
	Finish()
}

// IndexResult is the outcome of one index's export.
type IndexResult struct {
	Index     string
	Documents int64
	Pages     int64

	// Err is the index-level failure, nil on success.
	Err *IndexError
}

// Summary describes a completed (or fatally aborted) export run.
type Summary struct {
	RunID        string
	Started      time.Time
	Finished     time.Time
	Results      []IndexResult
	BytesWritten int64
}

// TotalDocuments returns the number of documents exported across indices.
func (s *Summary) TotalDocuments() int64 {
	var n int64
	for _, r := range s.Results {
		n += r.Documents
	}
	return n
}

// FailedIndices returns the names of indices that hit an index-level
// failure.
func (s *Summary) FailedIndices() []string {
	var failed []string
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r.Index)
		}
	}
	return failed
}

// Exporter drives the export: one snapshot session and one pagination
// loop per index, strictly sequential, writing to a sink it exclusively
// owns for the duration of the run.
type Exporter struct {
	transport Transport
	enc       *bulk.Encoder
	opts      Options
	observer  Observer
	progress  Progress
	logger    *slog.Logger
}

// New creates an exporter writing to out. Zero-valued options fall back
// to a batch size of 500 and a keep-alive of "1m".
func New(t Transport, out sink.Sink, opts Options) *Exporter {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if opts.KeepAlive == "" {
		opts.KeepAlive = "1m"
	}
	return &Exporter{
		transport: t,
		enc:       bulk.NewEncoder(out),
		opts:      opts,
		logger:    slog.Default().With("component", "export"),
	}
}

// SetObserver attaches a metrics observer. Must be called before Run.
func (e *Exporter) SetObserver(o Observer) { e.observer = o }

// SetProgress attaches a progress reporter. Must be called before Run.
func (e *Exporter) SetProgress(p Progress) { e.progress = p }

// Run exports the given indices in input order. Index-level failures are
// recorded in the summary and do not stop the run; the returned error is
// non-nil only for fatal conditions (unreachable backend, sink I/O
// failure), in which case the summary covers the work completed so far.
func (e *Exporter) Run(ctx context.Context, indices []string) (*Summary, error) {
	sum := &Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}

	e.logger.Info("export run starting",
		"run_id", sum.RunID,
		"indices", indices,
		"batch_size", e.opts.BatchSize,
		"keep_alive", e.opts.KeepAlive,
	)

	for _, index := range indices {
		res, err := e.runIndex(ctx, index)
		if err != nil {
			ie, ok := AsIndexError(err)
			if !ok {
				sum.Finished = time.Now()
				sum.BytesWritten = e.enc.BytesWritten()
				return sum, err
			}

			e.logger.Error("index failed, continuing with remaining indices",
				"run_id", sum.RunID,
				"index", index,
				"status", ie.Status,
				"detail", ie.Detail,
			)
			if e.observer != nil {
				e.observer.IndexFailed(index, ie.Detail)
			}
			res.Err = ie
		}
		sum.Results = append(sum.Results, res)
	}

	if err := e.enc.Flush(); err != nil {
		return sum, fmt.Errorf("sink flush failed: %w", err)
	}

	sum.Finished = time.Now()
	sum.BytesWritten = e.enc.BytesWritten()
	if e.observer != nil {
		e.observer.BytesWritten(sum.BytesWritten)
	}
	if e.progress != nil {
		e.progress.Finish()
	}

	e.logger.Info("export run finished",
		"run_id", sum.RunID,
		"documents", sum.TotalDocuments(),
		"failed_indices", sum.FailedIndices(),
		"duration", sum.Finished.Sub(sum.Started),
	)
	return sum, nil
}

// runIndex drives one index from snapshot open to an empty page. The
// snapshot token and cursor are loop-local state: the token is reassigned
// to the rotated value from each response, and the next request never
// reuses a stale token.
func (e *Exporter) runIndex(ctx context.Context, index string) (IndexResult, error) {
	res := IndexResult{Index: index}

	token, err := openSession(ctx, e.transport, index, e.opts.KeepAlive)
	if err != nil {
		return res, err
	}
	defer func() {
		closeSession(ctx, e.transport, index, token)
	}()

	e.logger.Debug("snapshot opened", "index", index)

	var cursor *Cursor
	for {
		start := time.Now()
		page, err := fetchPage(ctx, e.transport, pageRequest{
			Index:     index,
			Token:     token,
			KeepAlive: e.opts.KeepAlive,
			Size:      e.opts.BatchSize,
			Cursor:    cursor,
		})
		if err != nil {
			return res, err
		}

		token = page.Token

		if page.Empty() {
			break
		}

		for _, doc := range page.Documents {
			if err := e.enc.WriteDocument(index, doc.Source); err != nil {
				return res, err
			}
		}
		if err := e.enc.Flush(); err != nil {
			return res, fmt.Errorf("sink flush failed: %w", err)
		}

		res.Documents += int64(len(page.Documents))
		res.Pages++

		if e.observer != nil {
			e.observer.PageFetched(index, len(page.Documents), time.Since(start))
		}
		if e.progress != nil {
			e.progress.Update(index, res.Documents)
		}

		next := nextCursor(page)
		if next == nil {
			// Refetching without a cursor would restart from the
			// beginning and never terminate.
			e.logger.Warn("data anomaly: page has documents but no sort key",
				"index", index,
				"documents", len(page.Documents),
			)
			return res, &IndexError{Index: index, Detail: ErrNoCursor.Error(), Cause: ErrNoCursor}
		}
		cursor = next
	}

	e.logger.Info("index exported",
		"index", index,
		"documents", res.Documents,
		"pages", res.Pages,
	)
	return res, nil
}
