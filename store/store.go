// Package store provides SQLite-based persistence for planning runs.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/traverse-xyz/go-traverse/planner"
	"github.com/traverse-xyz/go-traverse/results"
)

// ErrNotFound reports a run ID with no stored record.
var ErrNotFound = errors.New("store: run not found")

// Store handles SQLite database operations for planning runs.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID     string    `json:"runId"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Solver    string    `json:"solver"`
	Status    string    `json:"status"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Sweeps    int       `json:"sweeps"`
	Reachable int       `json:"reachable"`
	StartCost float64   `json:"startCost"`
}

// New opens (or creates) a store at the given database path. Use
// ":memory:" for an ephemeral store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		solver TEXT NOT NULL,
		status TEXT NOT NULL,
		rows INTEGER NOT NULL,
		cols INTEGER NOT NULL,
		sweeps INTEGER DEFAULT 0,
		reachable INTEGER DEFAULT 0,
		start_cost REAL DEFAULT 0,
		compute_time REAL DEFAULT 0,
		document TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sweeps (
		run_id TEXT NOT NULL,
		sweep INTEGER NOT NULL,
		visited INTEGER NOT NULL,
		reachable INTEGER NOT NULL,
		mean_cost REAL NOT NULL,
		max_cost REAL NOT NULL,
		changed INTEGER NOT NULL,
		elapsed_ns INTEGER NOT NULL,
		PRIMARY KEY (run_id, sweep),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_sweeps_run ON sweeps(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SaveRun persists a complete run: summary columns for listing plus the
// full results document, and one row per sweep for convergence queries.
func (s *Store) SaveRun(r *results.Results) error {
	doc, err := results.ToJSON(r)
	if err != nil {
		return fmt.Errorf("store: encode run %s: %w", r.Metadata.RunID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, name, created_at, solver, status, rows, cols,
		 sweeps, reachable, start_cost, compute_time, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Metadata.RunID, r.Scenario.Name, r.Metadata.Timestamp.UTC(),
		r.Metadata.Solver, r.Metadata.Status,
		r.Scenario.Rows, r.Scenario.Cols,
		r.Results.Summary.Sweeps, r.Results.Summary.Reachable,
		r.Results.Summary.StartCost, r.Metadata.ComputeTime, doc,
	)
	if err != nil {
		return fmt.Errorf("store: insert run %s: %w", r.Metadata.RunID, err)
	}

	for _, sw := range r.Results.History {
		_, err = tx.Exec(
			`INSERT INTO sweeps (run_id, sweep, visited, reachable, mean_cost,
			 max_cost, changed, elapsed_ns)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Metadata.RunID, sw.Sweep, sw.Visited, sw.Reachable,
			sw.MeanCost, sw.MaxCost, sw.Changed, int64(sw.Elapsed),
		)
		if err != nil {
			return fmt.Errorf("store: insert sweep %d of run %s: %w", sw.Sweep, r.Metadata.RunID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a complete run document by ID.
func (s *Store) GetRun(id string) (*results.Results, error) {
	var doc string
	err := s.db.QueryRow(`SELECT document FROM runs WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return results.FromJSON(doc)
}

// ListRuns returns run summaries, newest first. A non-positive limit
// returns all runs.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	q := `SELECT id, name, created_at, solver, status, rows, cols,
	      sweeps, reachable, start_cost
	      FROM runs ORDER BY created_at DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(q+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var name sql.NullString
		if err := rows.Scan(&r.RunID, &name, &r.Timestamp, &r.Solver, &r.Status,
			&r.Rows, &r.Cols, &r.Sweeps, &r.Reachable, &r.StartCost); err != nil {
			return nil, err
		}
		if name.Valid {
			r.Name = name.String
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetSweeps retrieves the per-sweep history of a run.
func (s *Store) GetSweeps(runID string) ([]planner.SweepStats, error) {
	rows, err := s.db.Query(
		`SELECT sweep, visited, reachable, mean_cost, max_cost, changed, elapsed_ns
		 FROM sweeps WHERE run_id = ? ORDER BY sweep`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []planner.SweepStats
	for rows.Next() {
		var sw planner.SweepStats
		var elapsed int64
		if err := rows.Scan(&sw.Sweep, &sw.Visited, &sw.Reachable,
			&sw.MeanCost, &sw.MaxCost, &sw.Changed, &elapsed); err != nil {
			return nil, err
		}
		sw.Elapsed = time.Duration(elapsed)
		history = append(history, sw)
	}
	return history, rows.Err()
}

// DeleteRun removes a run and its sweep history.
func (s *Store) DeleteRun(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sweeps WHERE run_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}
