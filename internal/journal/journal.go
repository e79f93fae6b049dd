// Package journal persists import run history to a local SQLite database.
//
// Every run gets one row in the runs table and one row per processed
// spreadsheet row in row_results. The journal is strictly an audit trail:
// recording failures must never fail an import, so callers log and continue
// when Record returns an error.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/fabrii9/prodsync/internal/batch"
)

// DefaultPath is the journal location relative to the working directory.
const DefaultPath = ".prodsync/journal.db"

// Run is one recorded import run.
type Run struct {
	ID        string
	File      string
	Sheet     string
	DryRun    bool
	Workers   int
	Total     int
	Succeeded int
	Failed    int
	StartedAt time.Time
	Elapsed   time.Duration
}

// RowOutcome is one recorded per-row result.
type RowOutcome struct {
	Index   int
	OK      bool
	Message string
}

// Journal wraps the SQLite connection.
type Journal struct {
	conn *sql.DB
	path string
}

// Open creates or opens the journal database at path and ensures the
// schema exists.
//
// The caller must Close() the journal when done.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	j := &Journal{conn: conn, path: path}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = j.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := j.initSchema(); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.conn == nil {
		return nil
	}
	err := j.conn.Close()
	j.conn = nil
	return err
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		file        TEXT NOT NULL,
		sheet       TEXT NOT NULL DEFAULT '',
		dry_run     INTEGER NOT NULL DEFAULT 0,
		workers     INTEGER NOT NULL,
		total       INTEGER NOT NULL,
		succeeded   INTEGER NOT NULL,
		failed      INTEGER NOT NULL,
		started_at  TEXT NOT NULL,
		elapsed_ms  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS row_results (
		run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		row_index  INTEGER NOT NULL,
		ok         INTEGER NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, row_index)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	`
	if _, err := j.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return nil
}

// Record stores a finished run and all its row results in one transaction.
func (j *Journal) Record(run Run, results []batch.Result) error {
	tx, err := j.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, file, sheet, dry_run, workers, total, succeeded, failed, started_at, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.File, run.Sheet, boolToInt(run.DryRun), run.Workers,
		run.Total, run.Succeeded, run.Failed,
		run.StartedAt.UTC().Format(time.RFC3339), run.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO row_results (run_id, row_index, ok, message)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(run.ID, r.Index, boolToInt(r.OK), r.Message); err != nil {
			return fmt.Errorf("failed to insert row result %d: %w", r.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 means
// a default of 20.
func (j *Journal) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.conn.Query(`
		SELECT id, file, sheet, dry_run, workers, total, succeeded, failed, started_at, elapsed_ms
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			dryRun    int
			startedAt string
			elapsedMS int64
		)
		if err := rows.Scan(&run.ID, &run.File, &run.Sheet, &dryRun, &run.Workers,
			&run.Total, &run.Succeeded, &run.Failed, &startedAt, &elapsedMS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.DryRun = dryRun != 0
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Failures returns the failed rows of one run, in row order.
func (j *Journal) Failures(runID string) ([]RowOutcome, error) {
	rows, err := j.conn.Query(`
		SELECT row_index, ok, message FROM row_results
		WHERE run_id = ? AND ok = 0 ORDER BY row_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query row results: %w", err)
	}
	defer rows.Close()

	var outcomes []RowOutcome
	for rows.Next() {
		var (
			o  RowOutcome
			ok int
		)
		if err := rows.Scan(&o.Index, &ok, &o.Message); err != nil {
			return nil, fmt.Errorf("failed to scan row result: %w", err)
		}
		o.OK = ok != 0
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
