package cache

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// schema for the parse cache. No foreign keys; one row per input path.
const schema = `
CREATE TABLE IF NOT EXISTS parses (
    path TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL,
    trees TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`

// SQLiteStore is a SQLite-backed Store using the ncruces database/sql
// driver. Thread-safe.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a cache database. Use ":memory:" for a
// throwaway cache or a file path for persistence across runs.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(path, contentHash string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hash, trees string
	err := s.db.QueryRow(
		`SELECT content_hash, trees FROM parses WHERE path = ?`, path,
	).Scan(&hash, &trees)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: reading %s: %w", path, err)
	}
	if hash != contentHash {
		return "", false, nil
	}
	return trees, true, nil
}

func (s *SQLiteStore) Put(path, contentHash, trees string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO parses (path, content_hash, trees, created_at) VALUES (?, ?, ?, ?)`,
		path, contentHash, trees, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("cache: storing %s: %w", path, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM parses WHERE path = ?`, path); err != nil {
		return fmt.Errorf("cache: deleting %s: %w", path, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
