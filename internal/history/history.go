// Package history keeps a local log of past conversions in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const dbName = "bsr2trip.db"

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL,
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	mapper TEXT NOT NULL,
	difficulties INTEGER NOT NULL,
	converted INTEGER NOT NULL,
	dropped INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
`

// Entry is one recorded conversion run.
type Entry struct {
	ID           int64
	Code         string
	Title        string
	Artist       string
	Mapper       string
	Difficulties int
	Converted    int
	Dropped      int
	Failed       int
	CreatedAt    time.Time
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared", filepath.Join(dir, dbName))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records one conversion run.
func (s *Store) Insert(ctx context.Context, e Entry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (code, title, artist, mapper, difficulties, converted, dropped, failed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Code, e.Title, e.Artist, e.Mapper, e.Difficulties, e.Converted, e.Dropped, e.Failed,
		created.Format(time.RFC3339))
	return err
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, title, artist, mapper, difficulties, converted, dropped, failed, created_at
		 FROM conversions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.Code, &e.Title, &e.Artist, &e.Mapper,
			&e.Difficulties, &e.Converted, &e.Dropped, &e.Failed, &created); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
