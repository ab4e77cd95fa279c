package cache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	bperrors "github.com/matzehuels/bpserial/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
)`

// SQLiteCache stores entries in a single SQLite database file. expires_at
// holds Unix nanoseconds; 0 means no expiry.
type SQLiteCache struct {
	db   *sql.DB
	path string
}

// NewSQLiteCache opens or creates the database at path.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeIO, err, "create cache directory for %s", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeIO, err, "open %s", path)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range append(pragmas, sqliteSchema) {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, bperrors.Wrap(bperrors.ErrCodeIO, err, "initialize %s", path)
		}
	}
	return &SQLiteCache{db: db, path: path}, nil
}

// Path returns the database file.
func (c *SQLiteCache) Path() string { return c.path }

// Get reads an entry. Expired entries are removed and reported as misses.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data      []byte
		expiresAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, bperrors.Wrap(bperrors.ErrCodeIO, err, "read cache entry %s", key)
	}
	if expiresAt != 0 && time.Now().UnixNano() > expiresAt {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes an entry, replacing any earlier value. A non-positive ttl
// stores it without expiry.
func (c *SQLiteCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, data, expiresAt)
	if err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "write cache entry %s", key)
	}
	return nil
}

// Delete removes an entry. Deleting a missing key is not an error.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return bperrors.Wrap(bperrors.ErrCodeIO, err, "delete cache entry %s", key)
	}
	return nil
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

var _ Cache = (*SQLiteCache)(nil)
