// Package store persists a run's final aggregated notification table to
// a queryable SQLite file, as an optional sink alongside the plain-text
// final summary. It never stores mid-run population state; only the
// already-aggregated output of a completed run.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a SQLite database holding aggregated notification counts,
// keyed by run ID so several runs can share one file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite file at path, creates its
// tables if they do not already exist, and returns a Store ready to
// accept aggregate rows. Existing tables and rows are kept as they are.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS notifications (
	run_id    TEXT NOT NULL,
	year      INTEGER NOT NULL,
	age_class INTEGER NOT NULL,
	sex       INTEGER NOT NULL,
	cohort    INTEGER NOT NULL,
	count     INTEGER NOT NULL,
	rate      REAL
);
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	seed           INTEGER,
	start_year     REAL,
	duration_years REAL,
	events_dispatched INTEGER,
	final_population  INTEGER
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// RunSummary is the one-row-per-run metadata WriteRun persists.
type RunSummary struct {
	RunID            string
	Seed             int64
	StartYear        float64
	DurationYears    float64
	EventsDispatched int64
	FinalPopulation  int
}

// WriteRun records run-level metadata for runID.
func (s *Store) WriteRun(r RunSummary) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs (run_id, seed, start_year, duration_years, events_dispatched, final_population)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Seed, r.StartYear, r.DurationYears, r.EventsDispatched, r.FinalPopulation,
	)
	return err
}

// NotificationRow is one aggregated cell of the final notification
// table: a year/age-class/sex/cohort count plus its corrected rate per
// 100000, when an observed-population denominator was available.
type NotificationRow struct {
	Year     int
	AgeClass int
	Sex      int
	Cohort   int
	Count    int
	Rate     *float64 // nil when no correction denominator applied
}

// WriteNotifications bulk-inserts rows under runID, in a single
// transaction so a large final table does not pay one fsync per row.
func (s *Store) WriteNotifications(runID string, rows []NotificationRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		`INSERT INTO notifications (run_id, year, age_class, sex, cohort, count, rate) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(runID, row.Year, row.AgeClass, row.Sex, row.Cohort, row.Count, row.Rate); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
