// Package cache memoizes completion responses in a local SQLite
// database, so re-running on the same diff does not repeat requests.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rtwfroody/gpt-commit-msg/internal/llm"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	response   TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

// Store is a SQLite-backed response cache. Counters are atomic: the
// store is read from concurrent chunk-summarization goroutines.
type Store struct {
	conn         *sql.DB
	hits, misses atomic.Int64
}

// DefaultPath returns the per-user cache database location.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cache: resolve cache directory: %w", err)
	}
	return filepath.Join(dir, "gpt-commit-msg", "cache.db"), nil
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite: %w", err)
	}

	// Single writer, multiple readers.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.conn.Close() }

// Hits and Misses report lookup statistics for this process.
func (s *Store) Hits() int64   { return s.hits.Load() }
func (s *Store) Misses() int64 { return s.misses.Load() }

func (s *Store) get(key string) (string, bool) {
	var resp string
	err := s.conn.QueryRow(`SELECT response FROM responses WHERE key = ?`, key).Scan(&resp)
	if err != nil {
		return "", false
	}
	return resp, true
}

func (s *Store) put(key, response string) {
	// Best effort: a failed insert only costs a future cache miss.
	_, _ = s.conn.Exec(
		`INSERT OR REPLACE INTO responses (key, response, created_at) VALUES (?, ?, ?)`,
		key, response, time.Now().UTC(),
	)
}

// Wrap returns a Completer that consults the store before delegating
// to next. Only successful responses are cached; errors always pass
// through and leave no entry behind.
func Wrap(next llm.Completer, store *Store) llm.Completer {
	return &cachedCompleter{next: next, store: store}
}

type cachedCompleter struct {
	next  llm.Completer
	store *Store
}

func (c *cachedCompleter) Profile() llm.Profile { return c.next.Profile() }

func (c *cachedCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	key := c.key(req)
	if resp, ok := c.store.get(key); ok {
		c.store.hits.Add(1)
		return resp, nil
	}
	c.store.misses.Add(1)

	resp, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	c.store.put(key, resp)
	return resp, nil
}

// key derives a stable cache key from the provider, model, and both
// prompts. Parts are length-prefixed so concatenation is unambiguous.
func (c *cachedCompleter) key(req llm.Request) string {
	p := c.next.Profile()
	h := sha256.New()
	for _, part := range []string{p.Provider, p.Name, req.System, req.User} {
		fmt.Fprintf(h, "%d:%s", len(part), part)
	}
	return hex.EncodeToString(h.Sum(nil))
}
