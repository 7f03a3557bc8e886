package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/driftbyte/esdump/pkg/export"
)

// Run is one recorded export run.
type Run struct {
	ID             string
	Started        time.Time
	Finished       time.Time
	TotalDocuments int64
	BytesWritten   int64
	FailedIndices  int
}

// IndexOutcome is the recorded result of one index within a run.
type IndexOutcome struct {
	RunID     string
	Index     string
	Documents int64
	Pages     int64
	Status    string // "ok" or "failed"
	Detail    string
}

// Store is a SQLite-backed run-history store. SQLite supports a single
// writer, so the connection pool is pinned to one connection and writes
// are serialized with a mutex.
type Store struct {
	db        *sql.DB
	mu        sync.Mutex
	closeOnce sync.Once

	insertRunStmt   *sql.Stmt
	insertIndexStmt *sql.Stmt
	listRunsStmt    *sql.Stmt
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history database path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare history statements: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		total_documents INTEGER NOT NULL,
		bytes_written INTEGER NOT NULL,
		failed_indices INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_indices (
		run_id TEXT NOT NULL,
		idx TEXT NOT NULL,
		documents INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) prepareStatements() error {
	var err error

	s.insertRunStmt, err = s.db.Prepare(`
		INSERT INTO runs (id, started_at, finished_at, total_documents, bytes_written, failed_indices)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare run insert: %w", err)
	}

	s.insertIndexStmt, err = s.db.Prepare(`
		INSERT INTO run_indices (run_id, idx, documents, pages, status, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare index insert: %w", err)
	}

	s.listRunsStmt, err = s.db.Prepare(`
		SELECT id, started_at, finished_at, total_documents, bytes_written, failed_indices
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare run list: %w", err)
	}

	return nil
}

// Record persists a run summary and its per-index results.
func (s *Store) Record(ctx context.Context, sum *export.Summary) error {
	if sum == nil {
		return fmt.Errorf("summary cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.insertRunStmt.ExecContext(ctx,
		sum.RunID,
		sum.Started.Unix(),
		sum.Finished.Unix(),
		sum.TotalDocuments(),
		sum.BytesWritten,
		len(sum.FailedIndices()),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for _, r := range sum.Results {
		status, detail := "ok", ""
		if r.Err != nil {
			status, detail = "failed", r.Err.Error()
		}
		_, err := s.insertIndexStmt.ExecContext(ctx,
			sum.RunID, r.Index, r.Documents, r.Pages, status, detail,
		)
		if err != nil {
			return fmt.Errorf("failed to record index result: %w", err)
		}
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.listRunsStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &started, &finished, &r.TotalDocuments, &r.BytesWritten, &r.FailedIndices); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Started = time.Unix(started, 0)
		r.Finished = time.Unix(finished, 0)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// Indices returns the per-index outcomes of one run.
func (s *Store) Indices(ctx context.Context, runID string) ([]IndexOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, idx, documents, pages, status, detail
		FROM run_indices
		WHERE run_id = ?
		ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list index outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []IndexOutcome
	for rows.Next() {
		var o IndexOutcome
		if err := rows.Scan(&o.RunID, &o.Index, &o.Documents, &o.Pages, &o.Status, &o.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan index outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating index outcomes: %w", err)
	}
	return outcomes, nil
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		if s.insertRunStmt != nil {
			s.insertRunStmt.Close()
		}
		if s.insertIndexStmt != nil {
			s.insertIndexStmt.Close()
		}
		if s.listRunsStmt != nil {
			s.listRunsStmt.Close()
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})
	return closeErr
}
