package preferences

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);`

// SQLiteStore persists preferences in a SQLite database. Booleans are
// stored as 0/1 in the same key-value table as integers.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create preference directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open preference database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create preference schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetBool returns the stored value for key, or ok=false if unset.
func (s *SQLiteStore) GetBool(key string) (bool, bool) {
	v, ok := s.get(key)
	return v != 0, ok
}

// SetBool stores value under key.
func (s *SQLiteStore) SetBool(key string, value bool) error {
	v := 0
	if value {
		v = 1
	}
	return s.set(key, v)
}

// GetInt returns the stored value for key, or ok=false if unset.
func (s *SQLiteStore) GetInt(key string) (int, bool) {
	return s.get(key)
}

// SetInt stores value under key.
func (s *SQLiteStore) SetInt(key string, value int) error {
	return s.set(key, value)
}

func (s *SQLiteStore) get(key string) (int, bool) {
	var v int
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&v)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *SQLiteStore) set(key string, value int) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write preference %q: %w", key, err)
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Store = (*SQLiteStore)(nil)
