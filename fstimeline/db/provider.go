package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/assert-lib"
	_ "github.com/tursodatabase/go-libsql"
)

// RunStore persists collection runs so two scans of the same tree can be
// compared later.
type RunStore struct {
	db            *sql.DB
	AssertHandler *assert.AssertHandler
}

// NewRunStore opens or initializes the run database at the given DSN.
// A "file:" DSN gets its parent directory created on demand.
func NewRunStore(dsn string, assertHandler *assert.AssertHandler) (*RunStore, error) {
	if path, ok := strings.CutPrefix(dsn, "file:"); ok {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create database directory %s: %w", dir, err)
		}
	}

	slog.Debug("Run database DSN", "dsn", dsn)

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open run database: %w", err)
	}

	store := &RunStore{db: db, AssertHandler: assertHandler}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// init sets up the run store tables.
func (s *RunStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY UNIQUE,
		root TEXT NOT NULL,
		taken_at TEXT NOT NULL,
		file_count INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS paths (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE
	)`)
	if err != nil {
		return fmt.Errorf("failed to create paths table: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS records (
		run_id TEXT NOT NULL,
		path_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		size INTEGER NOT NULL,
		mode TEXT NOT NULL,
		uid INTEGER NOT NULL,
		gid INTEGER NOT NULL,
		owner TEXT,
		inode INTEGER,
		mtime TEXT,
		atime TEXT,
		ctime TEXT,
		btime TEXT,
		captured TEXT,
		PRIMARY KEY (run_id, path_id)
	)`)
	if err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}
