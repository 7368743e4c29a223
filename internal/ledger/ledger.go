// Package ledger records every pass invocation in a local SQLite database
// so failed or rolled-back runs stay visible after the console scrolls.
package ledger

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

	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// FileName is the database file created inside the data directory.
const FileName = "runs.db"

// timeLayout is fixed-width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrClosed is returned by operations on a closed ledger.
var ErrClosed = errors.New("ledger is closed")

// Ledger is the run history store.
type Ledger struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// Open creates dataDir if needed and opens (or creates) the ledger in it.
func Open(dataDir string) (*Ledger, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	// One connection keeps SQLite writes serialized.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying ledger schema: %w", err)
		}
	}

	return &Ledger{db: db, now: time.Now}, nil
}

// Close releases the database. Idempotent.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// Begin records the start of a pass and returns the running entry.
func (l *Ledger) Begin(pass, input, target string) (*types.Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil, ErrClosed
	}

	run := &types.Run{
		RunID:     generateUUID(),
		Pass:      pass,
		Input:     input,
		Target:    target,
		State:     types.RunStateRunning,
		StartedAt: l.now().UTC(),
	}

	_, err := l.db.Exec(
		`INSERT INTO runs (run_id, pass, input, target, records, state, started_at) VALUES (?, ?, ?, ?, 0, ?, ?)`,
		run.RunID, run.Pass, run.Input, run.Target, run.State, run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}
	return run, nil
}

// Finish records the outcome of run. A nil runErr marks it succeeded with
// the given record count; an error wrapping ErrRolledBack marks it rolled
// back; any other error marks it failed. Failed runs always record zero
// records since no output was committed.
func (l *Ledger) Finish(run *types.Run, records int, runErr error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return ErrClosed
	}

	finished := l.now().UTC()
	run.FinishedAt = &finished
	run.State = stateFor(runErr)
	run.Records = records
	run.Error = ""
	if runErr != nil {
		run.Records = 0
		run.Error = runErr.Error()
	}

	var errText sql.NullString
	if run.Error != "" {
		errText = sql.NullString{String: run.Error, Valid: true}
	}

	res, err := l.db.Exec(
		`UPDATE runs SET records = ?, state = ?, error = ?, finished_at = ? WHERE run_id = ?`,
		run.Records, run.State, errText, finished.Format(timeLayout), run.RunID,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", run.RunID, sql.ErrNoRows)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (l *Ledger) List(limit int) ([]types.Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil, ErrClosed
	}

	query := `SELECT run_id, pass, input, target, records, state, error, started_at, finished_at
FROM runs ORDER BY started_at DESC, run_id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (types.Run, error) {
	var (
		run      types.Run
		errText  sql.NullString
		started  string
		finished sql.NullString
	)
	if err := rows.Scan(&run.RunID, &run.Pass, &run.Input, &run.Target, &run.Records,
		&run.State, &errText, &started, &finished); err != nil {
		return run, fmt.Errorf("scanning run: %w", err)
	}

	run.Error = errText.String
	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return run, fmt.Errorf("parsing started_at %q: %w", started, err)
	}
	run.StartedAt = t
	if finished.Valid {
		t, err := time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return run, fmt.Errorf("parsing finished_at %q: %w", finished.String, err)
		}
		run.FinishedAt = &t
	}
	return run, nil
}

func stateFor(err error) string {
	switch {
	case err == nil:
		return types.RunStateSucceeded
	case errors.Is(err, types.ErrRolledBack):
		return types.RunStateRolledBack
	default:
		return types.RunStateFailed
	}
}

// generateUUID generates a new UUID v7 for run IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
