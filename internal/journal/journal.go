// Package journal persists run history for mutating dotkit commands in a
// SQLite database under the data directory.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dotforge/dotkit/pkg/types"
)

// dbFileName is the SQLite file created under the data directory.
const dbFileName = "dotkit.db"

// Journal records command runs and their step results.
type Journal struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates the data directory if needed, opens the journal database,
// and bootstraps the schema.
func Open(dataDir string) (*Journal, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database handle. Close is idempotent.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// Begin inserts a new run in the "running" state and returns its ID.
func (j *Journal) Begin(command string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return "", types.ErrJournalClosed
	}

	runID := newRunID()
	_, err := j.db.Exec(
		`INSERT INTO runs (run_id, command, status, started_at) VALUES (?, ?, ?, ?)`,
		runID, command, "running", time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

// Finish records the terminal status and step results of a run.
func (j *Journal) Finish(runID string, status types.RunStatus, steps []types.StepResult) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return types.ErrJournalClosed
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE runs SET status = ?, finished_at = ? WHERE run_id = ?`,
		string(status), time.Now().UTC().Format(time.RFC3339Nano), runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrRunNotFound
	}

	for i, step := range steps {
		_, err := tx.Exec(
			`INSERT INTO step_results (run_id, ordinal, name, status, output, error, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, step.Name, string(step.Status), step.Output, step.Error,
			step.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// List returns the most recent runs, newest first, without step details.
// A non-positive limit returns all runs.
func (j *Journal) List(limit int) ([]types.RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return nil, types.ErrJournalClosed
	}

	query := `SELECT run_id, command, status, started_at, finished_at
	          FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []types.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns one run with its step results.
func (j *Journal) Get(runID string) (types.RunRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return types.RunRecord{}, types.ErrJournalClosed
	}

	row := j.db.QueryRow(
		`SELECT run_id, command, status, started_at, finished_at FROM runs WHERE run_id = ?`,
		runID,
	)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RunRecord{}, types.ErrRunNotFound
	}
	if err != nil {
		return types.RunRecord{}, err
	}

	rows, err := j.db.Query(
		`SELECT name, status, output, error, duration_ms
		 FROM step_results WHERE run_id = ? ORDER BY ordinal`,
		runID,
	)
	if err != nil {
		return types.RunRecord{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var step types.StepResult
		var status string
		var durationMs int64
		if err := rows.Scan(&step.Name, &status, &step.Output, &step.Error, &durationMs); err != nil {
			return types.RunRecord{}, err
		}
		step.Status = types.RunStatus(status)
		step.Duration = time.Duration(durationMs) * time.Millisecond
		rec.Steps = append(rec.Steps, step)
	}
	return rec, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (types.RunRecord, error) {
	var rec types.RunRecord
	var status, startedAt string
	var finishedAt sql.NullString
	if err := row.Scan(&rec.RunID, &rec.Command, &status, &startedAt, &finishedAt); err != nil {
		return rec, err
	}
	rec.Status = types.RunStatus(status)

	t, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return rec, fmt.Errorf("parse started_at: %w", err)
	}
	rec.StartedAt = t

	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return rec, fmt.Errorf("parse finished_at: %w", err)
		}
		rec.FinishedAt = t
	}
	return rec, nil
}

// newRunID generates a UUID v7 so run IDs sort by creation time.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
