package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LoggingStore wraps a Store and turns failures into warnings. A broken
// cache then degrades to a cache miss instead of failing the render.
type LoggingStore struct {
	Store
	logger *slog.Logger
	mu     sync.Mutex
	warned map[string]bool // Rate-limit warnings by operation
}

// NewLoggingStore wraps store, logging to logger (slog.Default if nil).
func NewLoggingStore(store Store, logger *slog.Logger) *LoggingStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingStore{
		Store:  store,
		logger: logger,
		warned: make(map[string]bool),
	}
}

// logOnce logs a warning only once per operation to avoid spamming.
func (s *LoggingStore) logOnce(op string, err error) {
	if err == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.warned[op] {
		return
	}
	s.warned[op] = true
	s.logger.Warn("render cache failed", "op", op, "error", err)
}

// Get reports failures as misses.
func (s *LoggingStore) Get(ctx context.Context, key string) (*Entry, error) {
	e, err := s.Store.Get(ctx, key)
	s.logOnce("get", err)
	if err != nil {
		return nil, nil
	}
	return e, nil
}

// Put swallows failures after logging them.
func (s *LoggingStore) Put(ctx context.Context, key string, output []byte) error {
	s.logOnce("put", s.Store.Put(ctx, key, output))
	return nil
}

// Prune swallows failures after logging them.
func (s *LoggingStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.Store.Prune(ctx, before)
	s.logOnce("prune", err)
	return n, nil
}
