package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// RunIndexName is the run index file name inside the output directory.
const RunIndexName = "runs.db"

// RunInfo describes a run when it starts.
type RunInfo struct {
	Seed     uint64
	Soil     string
	Season   string
	Scenario string
}

// DeathRecord is one row of the deaths table.
type DeathRecord struct {
	RunID    int64
	Specimen uint32
	Kind     string
	Tick     int32
	Reason   string
}

// RunIndex records runs and specimen deaths in a sqlite database so that
// several runs written to the same directory can be compared.
// A nil *RunIndex discards everything.
type RunIndex struct {
	db *sql.DB
}

// OpenRunIndex opens (or creates) dir/runs.db. Returns nil if dir is empty.
func OpenRunIndex(dir string) (*RunIndex, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating run index directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, RunIndexName))
	if err != nil {
		return nil, fmt.Errorf("opening run index: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initRunIndex(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing run index: %w", err)
	}
	return &RunIndex{db: db}, nil
}

func initRunIndex(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			soil TEXT NOT NULL,
			season TEXT NOT NULL,
			scenario TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			finished_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS deaths (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			specimen INTEGER NOT NULL,
			kind TEXT NOT NULL,
			tick INTEGER NOT NULL,
			reason TEXT NOT NULL,
			PRIMARY KEY (run_id, specimen)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// StartRun inserts a run row and returns its id.
func (ri *RunIndex) StartRun(info RunInfo) (int64, error) {
	if ri == nil {
		return 0, nil
	}
	res, err := ri.db.Exec(
		`INSERT INTO runs(seed, soil, season, scenario, started_at) VALUES(?, ?, ?, ?, ?)`,
		int64(info.Seed), info.Soil, info.Season, info.Scenario, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// RecordDeath stores one specimen death. Repeats for the same specimen are ignored.
func (ri *RunIndex) RecordDeath(d DeathRecord) error {
	if ri == nil {
		return nil
	}
	_, err := ri.db.Exec(
		`INSERT OR IGNORE INTO deaths(run_id, specimen, kind, tick, reason) VALUES(?, ?, ?, ?, ?)`,
		d.RunID, int64(d.Specimen), d.Kind, int64(d.Tick), d.Reason,
	)
	if err != nil {
		return fmt.Errorf("inserting death: %w", err)
	}
	return nil
}

// FinishRun stores the final tick count.
func (ri *RunIndex) FinishRun(runID int64, ticks int32) error {
	if ri == nil {
		return nil
	}
	_, err := ri.db.Exec(
		`UPDATE runs SET ticks = ?, finished_at = ? WHERE id = ?`,
		int64(ticks), time.Now().UTC().Format(time.RFC3339), runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// Deaths returns the deaths recorded for a run in tick order.
func (ri *RunIndex) Deaths(runID int64) ([]DeathRecord, error) {
	if ri == nil {
		return nil, nil
	}
	rows, err := ri.db.Query(
		`SELECT specimen, kind, tick, reason FROM deaths WHERE run_id = ? ORDER BY tick, specimen`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying deaths: %w", err)
	}
	defer rows.Close()

	var out []DeathRecord
	for rows.Next() {
		d := DeathRecord{RunID: runID}
		var specimen, tick int64
		if err := rows.Scan(&specimen, &d.Kind, &tick, &d.Reason); err != nil {
			return nil, fmt.Errorf("scanning death: %w", err)
		}
		d.Specimen = uint32(specimen)
		d.Tick = int32(tick)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close closes the database.
func (ri *RunIndex) Close() error {
	if ri == nil {
		return nil
	}
	return ri.db.Close()
}
