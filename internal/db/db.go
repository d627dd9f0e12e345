// Package db manages the run history database
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas.
func (db *DB) configure() error {
	// A single connection keeps foreign_keys and the WAL settings in effect
	// for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	if err := db.createRunsTable(); err != nil {
		return err
	}
	return db.createRankingTables()
}

func (db *DB) createRunsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS ingest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		ingested_at TEXT NOT NULL,
		total_trips INTEGER NOT NULL DEFAULT 0,
		distinct_zones INTEGER NOT NULL DEFAULT 0,
		lines INTEGER NOT NULL DEFAULT 0,
		accepted INTEGER NOT NULL DEFAULT 0,
		skipped_empty INTEGER NOT NULL DEFAULT 0,
		skipped_short INTEGER NOT NULL DEFAULT 0,
		skipped_missing INTEGER NOT NULL DEFAULT 0,
		skipped_hour INTEGER NOT NULL DEFAULT 0,
		readable INTEGER NOT NULL DEFAULT 1,
		truncated INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_ingest_runs_time ON ingest_runs(ingested_at);
	CREATE INDEX IF NOT EXISTS idx_ingest_runs_path ON ingest_runs(path);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createRankingTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS run_zones (
		run_id INTEGER NOT NULL REFERENCES ingest_runs(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		zone TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, rank)
	);
	CREATE TABLE IF NOT EXISTS run_slots (
		run_id INTEGER NOT NULL REFERENCES ingest_runs(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		zone TEXT NOT NULL,
		hour INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, rank)
	);
	CREATE TABLE IF NOT EXISTS run_hours (
		run_id INTEGER NOT NULL REFERENCES ingest_runs(id) ON DELETE CASCADE,
		zone TEXT NOT NULL DEFAULT '',
		hour INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, zone, hour)
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	// Checkpoint WAL before closing
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum performs database maintenance to reclaim space.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}
