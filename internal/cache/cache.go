// Package cache is a small in-memory TTL cache for extracted document text,
// so repeat reads of the same document skip PDF extraction.
package cache

import (
	"sync"
	"time"
)

type item struct {
	text      string
	expiresAt time.Time
}

// Cache maps document filenames to their extracted text with expiry.
type Cache struct {
	mu    sync.Mutex
	items map[string]item
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		items: make(map[string]item),
	}
}

// Get returns the cached text for a key, evicting it when expired.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.items, key)
		return "", false
	}
	return entry.text, true
}

// Set stores text under a key with the given TTL.
func (c *Cache) Set(key, text string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		text:      text,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
}
