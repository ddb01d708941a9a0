package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
    key        TEXT PRIMARY KEY,
    version    INTEGER NOT NULL DEFAULT 0,
    data       TEXT NOT NULL DEFAULT '[]',
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore keeps every collection as one row of a SQLite table
type SQLiteStore struct {
	mu   sync.Mutex
	db   *sql.DB
	seen map[string]int64
}

// NewSQLiteStore opens (and creates if needed) the database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite storage requires a database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: collections are rewritten whole, and an in-memory
	// database only lives as long as its connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		seen: make(map[string]int64),
	}, nil
}

func (s *SQLiteStore) Load(key string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validKey(key) {
		return nil, newStoreError("load", key, ErrInvalidKey)
	}

	var (
		version int64
		data    string
	)
	err := s.db.QueryRow(
		`SELECT version, data FROM collections WHERE key = ?`, key,
	).Scan(&version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		s.seen[key] = 0
		return []Record{}, nil
	}
	if err != nil {
		return nil, newStoreError("load", key, err)
	}

	var records []Record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, newStoreError("load", key, fmt.Errorf("decode collection: %w", err))
	}
	s.seen[key] = version
	return records, nil
}

func (s *SQLiteStore) Save(key string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validKey(key) {
		return newStoreError("save", key, ErrInvalidKey)
	}
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return newStoreError("save", key, fmt.Errorf("encode collection: %w", err))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return newStoreError("save", key, err)
	}
	defer tx.Rollback()

	seen := s.seen[key]
	var res sql.Result
	if seen == 0 {
		res, err = tx.Exec(
			`INSERT OR IGNORE INTO collections (key, version, data) VALUES (?, 1, ?)`,
			key, string(data),
		)
	} else {
		res, err = tx.Exec(
			`UPDATE collections SET version = version + 1, data = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE key = ? AND version = ?`,
			string(data), key, seen,
		)
	}
	if err != nil {
		return newStoreError("save", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return newStoreError("save", key, err)
	}
	if n == 0 {
		return newStoreError("save", key, ErrConflict)
	}

	if err := tx.Commit(); err != nil {
		return newStoreError("save", key, err)
	}
	s.seen[key] = seen + 1
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
