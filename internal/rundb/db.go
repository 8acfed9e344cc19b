// Package rundb persists the catalog of selection runs: one row per run with
// its parameters and outcome counts, plus the individual record rejections,
// so past runs stay inspectable and comparable.
package rundb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DB wraps the sqlite connection holding the run catalog.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the run catalog at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS selection_runs (
			run_id            TEXT PRIMARY KEY,
			dataset_path      TEXT,
			output_path       TEXT,
			params_json       TEXT,
			windows_accepted  BIGINT,
			records_rejected  BIGINT,
			started_at_ns     BIGINT,
			finished_at_ns    BIGINT
		);
		CREATE TABLE IF NOT EXISTS selection_rejections (
			run_id            TEXT,
			record_identity   TEXT,
			reason            TEXT,
			FOREIGN KEY(run_id) REFERENCES selection_runs(run_id)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// Run is one catalog row.
type Run struct {
	RunID           string          `json:"run_id"`
	DatasetPath     string          `json:"dataset_path"`
	OutputPath      string          `json:"output_path"`
	ParamsJSON      json.RawMessage `json:"params_json,omitempty"`
	WindowsAccepted int             `json:"windows_accepted"`
	RecordsRejected int             `json:"records_rejected"`
	StartedAtNs     int64           `json:"started_at_ns"`
	FinishedAtNs    int64           `json:"finished_at_ns"`
}

// Rejection is one rejected record within a run.
type Rejection struct {
	RunID          string `json:"run_id"`
	RecordIdentity string `json:"record_identity"`
	Reason         string `json:"reason"`
}

// InsertRun stores a completed run. A missing RunID gets a fresh UUID; the
// (possibly generated) ID is returned.
func (db *DB) InsertRun(run *Run) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.FinishedAtNs == 0 {
		run.FinishedAtNs = time.Now().UnixNano()
	}

	_, err := db.Exec(`
		INSERT INTO selection_runs (
			run_id, dataset_path, output_path, params_json,
			windows_accepted, records_rejected, started_at_ns, finished_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.DatasetPath,
		run.OutputPath,
		string(run.ParamsJSON),
		run.WindowsAccepted,
		run.RecordsRejected,
		run.StartedAtNs,
		run.FinishedAtNs,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.RunID, nil
}

// GetRun retrieves a run by ID.
func (db *DB) GetRun(runID string) (*Run, error) {
	var run Run
	var params sql.NullString
	err := db.QueryRow(`
		SELECT run_id, dataset_path, output_path, params_json,
		       windows_accepted, records_rejected, started_at_ns, finished_at_ns
		FROM selection_runs WHERE run_id = ?`, runID,
	).Scan(
		&run.RunID,
		&run.DatasetPath,
		&run.OutputPath,
		&params,
		&run.WindowsAccepted,
		&run.RecordsRejected,
		&run.StartedAtNs,
		&run.FinishedAtNs,
	)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	if params.Valid && params.String != "" {
		run.ParamsJSON = json.RawMessage(params.String)
	}
	return &run, nil
}

// ListRuns returns all runs, most recent first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, dataset_path, output_path, params_json,
		       windows_accepted, records_rejected, started_at_ns, finished_at_ns
		FROM selection_runs ORDER BY started_at_ns DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var params sql.NullString
		if err := rows.Scan(
			&run.RunID,
			&run.DatasetPath,
			&run.OutputPath,
			&params,
			&run.WindowsAccepted,
			&run.RecordsRejected,
			&run.StartedAtNs,
			&run.FinishedAtNs,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if params.Valid && params.String != "" {
			run.ParamsJSON = json.RawMessage(params.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// InsertRejections stores the rejection lines of a run in one transaction.
func (db *DB) InsertRejections(runID string, rejections []Rejection) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("insert rejections: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO selection_rejections (run_id, record_identity, reason) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert rejections: %w", err)
	}
	defer stmt.Close()

	for _, r := range rejections {
		if _, err := stmt.Exec(runID, r.RecordIdentity, r.Reason); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert rejection for %s: %w", r.RecordIdentity, err)
		}
	}
	return tx.Commit()
}

// GetRejections returns the rejections of a run in insertion order.
func (db *DB) GetRejections(runID string) ([]Rejection, error) {
	rows, err := db.Query(`
		SELECT run_id, record_identity, reason
		FROM selection_rejections WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("get rejections: %w", err)
	}
	defer rows.Close()

	var out []Rejection
	for rows.Next() {
		var r Rejection
		if err := rows.Scan(&r.RunID, &r.RecordIdentity, &r.Reason); err != nil {
			return nil, fmt.Errorf("scan rejection: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
