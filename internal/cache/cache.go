// Package cache persists finished translations in SQLite so repeated
// requests skip the backend entirely. Entries are keyed by a digest of
// provider, language pair, and source text; the stored value is the final,
// already-decoded output.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	key        TEXT PRIMARY KEY,
	provider   TEXT NOT NULL,
	source     TEXT NOT NULL,
	target     TEXT NOT NULL,
	translated TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_translations_created_at ON translations(created_at);
`

// Store is a SQLite-backed translation cache.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database and bootstraps the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Key derives the cache key for one translation request.
func Key(provider, source, target, text string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", provider, source, target, text)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached translation for key, with a hit flag.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var translated string
	err := s.db.QueryRowContext(ctx,
		`SELECT translated FROM translations WHERE key = ?`, key).Scan(&translated)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: get: %w", err)
	}
	return translated, true, nil
}

// Put stores a finished translation, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key, provider, source, target, translated string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translations (key, provider, source, target, translated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key, provider, source, target, translated, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Purge deletes entries older than the given age and reports how many were
// removed.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Unix()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM translations WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache: purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache: purge count: %w", err)
	}
	return n, nil
}

// Len reports the number of cached translations. Used by the CLI status
// output and tests.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}
