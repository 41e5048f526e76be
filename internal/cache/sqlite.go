package cache

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is an alternative cache backend for deployments that prefer a
// queryable database file over bbolt.
type SQLiteStore struct {
	db     *sql.DB
	hits   atomic.Int64
	misses atomic.Int64
}

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	value BLOB NOT NULL,
	created_at_ms INTEGER NOT NULL,
	ttl_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_category ON cache_entries(category);
`

// OpenSQLite initializes or opens a SQLiteStore at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(createEntriesTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores value under key. ttl_ms of 0 means the entry never expires.
func (s *SQLiteStore) Put(key string, value []byte, category string, ttl time.Duration) error {
	ttlMillis := int64(0)
	if ttl > 0 {
		ttlMillis = ttl.Milliseconds()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO cache_entries (key, category, value, created_at_ms, ttl_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		key, category, value, time.Now().UnixMilli(), ttlMillis,
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Get returns the cached value if present and not expired.
func (s *SQLiteStore) Get(key string) ([]byte, error) {
	var value []byte
	var createdAtMillis, ttlMillis int64
	err := s.db.QueryRow(
		`SELECT value, created_at_ms, ttl_ms FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &createdAtMillis, &ttlMillis)
	if err == sql.ErrNoRows {
		s.misses.Add(1)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if ttlMillis > 0 && time.Now().UnixMilli() > createdAtMillis+ttlMillis {
		s.misses.Add(1)
		return nil, ErrExpired
	}
	s.hits.Add(1)
	return value, nil
}

// Delete removes a single key.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// ClearCategory removes every entry in category with one statement, so a
// concurrent reader sees either the old row or no row.
func (s *SQLiteStore) ClearCategory(category string) error {
	if _, err := s.db.Exec(`DELETE FROM cache_entries WHERE category = ?`, category); err != nil {
		return fmt.Errorf("cache clear category: %w", err)
	}
	return nil
}

// Stats reports row count and hit/miss totals.
func (s *SQLiteStore) Stats() (Stats, error) {
	var entries int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cache_entries`).Scan(&entries); err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return Stats{Entries: entries, Hits: s.hits.Load(), Misses: s.misses.Load()}, nil
}
