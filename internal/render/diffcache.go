package render

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/samsaffron/editrender/internal/diff"
)

// DiffCache is an LRU cache of closed-block diffs. Closed blocks are
// re-diffed on every update of a message that contains edit markers, so a
// renderer shared across updates keeps their entries here.
type DiffCache struct {
	mu      sync.Mutex
	maxSize int
	cache   map[string]*list.Element
	lruList *list.List
}

type diffCacheEntry struct {
	key     string
	entries []diff.Entry
}

// NewDiffCache creates a cache holding at most maxSize diffs.
func NewDiffCache(maxSize int) *DiffCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &DiffCache{
		maxSize: maxSize,
		cache:   make(map[string]*list.Element),
		lruList: list.New(),
	}
}

// diffKey identifies a diff by its inputs.
func diffKey(search, replace []string, refine bool) string {
	h := sha256.New()
	for _, l := range search {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, l := range replace {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}
	if refine {
		h.Write([]byte("refine"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns cached entries, or nil. A nil cache always misses.
func (c *DiffCache) Get(key string) []diff.Entry {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*diffCacheEntry).entries
	}
	return nil
}

// Put stores entries, evicting the least recently used diff when full.
func (c *DiffCache) Put(key string, entries []diff.Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*diffCacheEntry).entries = entries
		return
	}

	if c.lruList.Len() >= c.maxSize {
		c.evictOldest()
	}
	c.cache[key] = c.lruList.PushFront(&diffCacheEntry{key: key, entries: entries})
}

// evictOldest must be called with the lock held.
func (c *DiffCache) evictOldest() {
	oldest := c.lruList.Back()
	if oldest != nil {
		delete(c.cache, oldest.Value.(*diffCacheEntry).key)
		c.lruList.Remove(oldest)
	}
}

// Len returns the number of cached diffs.
func (c *DiffCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Clear drops every entry.
func (c *DiffCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.lruList.Init()
}

// blockDiff diffs a closed block, consulting the cache first.
func (c *DiffCache) blockDiff(search, replace []string, refine bool) []diff.Entry {
	key := diffKey(search, replace, refine)
	if entries := c.Get(key); entries != nil {
		return entries
	}
	entries := diff.Lines(search, replace)
	if refine {
		entries = diff.Refine(entries)
	}
	if entries != nil {
		c.Put(key, entries)
	}
	return entries
}
