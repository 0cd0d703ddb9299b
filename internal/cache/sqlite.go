package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS renders (
    key TEXT PRIMARY KEY,
    output BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    hits INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);
`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Get returns the entry for key and counts the hit.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, error) {
	var (
		e       Entry
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT key, output, created_at, hits FROM renders WHERE key = ?`, key,
	).Scan(&e.Key, &e.Output, &created, &e.Hits)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get render: %w", err)
	}
	e.CreatedAt = time.Unix(created, 0)

	if _, err := s.db.ExecContext(ctx, `UPDATE renders SET hits = hits + 1 WHERE key = ?`, key); err != nil {
		return nil, fmt.Errorf("count hit: %w", err)
	}
	e.Hits++
	return &e, nil
}

// Put stores output under key, replacing any previous render.
func (s *SQLiteStore) Put(ctx context.Context, key string, output []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO renders (key, output, created_at, hits) VALUES (?, ?, ?, 0)
		ON CONFLICT(key) DO UPDATE SET output = excluded.output, created_at = excluded.created_at`,
		key, output, s.now().Unix())
	if err != nil {
		return fmt.Errorf("put render: %w", err)
	}
	return nil
}

// Prune deletes renders created before the given time.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM renders WHERE created_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune renders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune renders: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
