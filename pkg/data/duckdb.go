package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// KeyValueStore is the local persistence used by the floating widget.
type KeyValueStore interface {
	// Get returns ok=false when the key has never been written.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS preferences (
		key VARCHAR PRIMARY KEY,
		value VARCHAR NOT NULL,
		updated_at TIMESTAMP DEFAULT current_timestamp
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}

	return db, nil
}

type DuckDBStore struct {
	db *sql.DB
}

func NewDuckDBStore(path string) (*DuckDBStore, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &DuckDBStore{db: db}, nil
}

func (s *DuckDBStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, true, nil
}

func (s *DuckDBStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO preferences (key, value, updated_at) VALUES (?, ?, current_timestamp)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
