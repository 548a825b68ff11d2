// Package history persists completed research runs in a local SQLite
// database so past reports can be listed and reopened.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const (
	StatusDone     = "done"
	StatusDegraded = "degraded"
)

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// RunRecord is one research run.
type RunRecord struct {
	ID         string
	Query      string
	Kind       string
	Entity     string
	Ticker     string
	ReportPath string
	Status     string
}

// RunWithMeta adds the database-managed columns.
type RunWithMeta struct {
	RunRecord
	RowID     int64
	CreatedAt string
}

// SectionRecord is one titled block of a run's report.
type SectionRecord struct {
	RunID string
	Seq   int
	Title string
	Body  string
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    kind TEXT NOT NULL,
    entity TEXT,
    ticker TEXT,
    report_path TEXT,
    status TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sections (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    title TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveRun records a run and its report sections in one transaction.
func (s *Store) SaveRun(ctx context.Context, run RunRecord, sections []SectionRecord) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id is required")
	}
	if run.Status == "" {
		run.Status = StatusDone
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, query, kind, entity, ticker, report_path, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    query=excluded.query,
    kind=excluded.kind,
    entity=excluded.entity,
    ticker=excluded.ticker,
    report_path=excluded.report_path,
    status=excluded.status
`, run.ID, run.Query, run.Kind, run.Entity, run.Ticker, run.ReportPath, run.Status)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, sec := range sections {
		_, err = tx.ExecContext(ctx, `
INSERT INTO sections (run_id, seq, title, body)
VALUES (?, ?, ?, ?)
ON CONFLICT(run_id, seq) DO UPDATE SET title=excluded.title, body=excluded.body
`, run.ID, i+1, sec.Title, sec.Body)
		if err != nil {
			return fmt.Errorf("insert section %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunWithMeta, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT rowid, id, query, kind, entity, ticker, report_path, status, created_at
FROM runs
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunWithMeta
	for rows.Next() {
		var r RunWithMeta
		if err := rows.Scan(&r.RowID, &r.ID, &r.Query, &r.Kind, &r.Entity, &r.Ticker, &r.ReportPath, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its sections in report order.
func (s *Store) GetRun(ctx context.Context, id string) (*RunWithMeta, []SectionRecord, error) {
	var r RunWithMeta
	err := s.db.QueryRowContext(ctx, `
SELECT rowid, id, query, kind, entity, ticker, report_path, status, created_at
FROM runs WHERE id = ?
`, id).Scan(&r.RowID, &r.ID, &r.Query, &r.Kind, &r.Entity, &r.Ticker, &r.ReportPath, &r.Status, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, seq, title, body FROM sections WHERE run_id = ? ORDER BY seq
`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get sections: %w", err)
	}
	defer rows.Close()

	var sections []SectionRecord
	for rows.Next() {
		var sec SectionRecord
		if err := rows.Scan(&sec.RunID, &sec.Seq, &sec.Title, &sec.Body); err != nil {
			return nil, nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, sec)
	}
	return &r, sections, rows.Err()
}
