// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the high score record.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single writer.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS high_score (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			cpm INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// HighScore returns the stored high score in CPM, or 0 when none was recorded.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var cpm int
	err := s.db.GetContext(ctx, &cpm, `SELECT cpm FROM high_score WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cpm, nil
}

// SetHighScore overwrites the stored high score.
func (s *Store) SetHighScore(ctx context.Context, cpm int) error {
	if cpm < 0 {
		return fmt.Errorf("high score must be >= 0, got %d", cpm)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO high_score (id, cpm) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET cpm = excluded.cpm`, cpm)
	return err
}
