// Package cache persists finalized renders so re-rendering an unchanged
// message is a lookup.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const cacheDir = "editrender"

// Entry is one cached render.
type Entry struct {
	Key       string
	Output    []byte
	CreatedAt time.Time
	Hits      int
}

// Store is the interface for render persistence. Get returns nil, nil on a
// miss.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, output []byte) error
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// Key identifies a finalized render by everything that affects it: the raw
// message text, the edit results and an options fingerprint.
func Key(text string, results any, options string) (string, error) {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	if err := json.NewEncoder(h).Encode(results); err != nil {
		return "", err
	}
	h.Write([]byte{0})
	h.Write([]byte(options))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DefaultPath returns the cache database location under $XDG_CACHE_HOME,
// falling back to ~/.cache.
func DefaultPath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", cacheDir+"-renders.db")
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, cacheDir, "renders.db")
}

// NoopStore is used when caching is disabled. It misses on every read and
// discards every write.
type NoopStore struct{}

func (NoopStore) Get(ctx context.Context, key string) (*Entry, error) {
	return nil, nil
}

func (NoopStore) Put(ctx context.Context, key string, output []byte) error {
	return nil
}

func (NoopStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (NoopStore) Close() error {
	return nil
}
