package charts

import (
	"strconv"
	"sync"
	"time"
)

// Cache holds rendered chart PNGs in memory for a fixed TTL. Keys combine the
// chart name with the dataset fingerprint, so an edited resource never hits an
// entry rendered from its previous contents.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewCache creates a cache with the given TTL. A TTL of zero or less disables
// caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Key builds the cache key for a chart rendered from a dataset.
func Key(chart string, fingerprint uint64) string {
	return chart + "@" + strconv.FormatUint(fingerprint, 16)
}

// Get returns the cached PNG for key if present and not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set stores a PNG under key and drops any entries that have expired.
func (c *Cache) Set(key string, data []byte) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{data: data, expiresAt: now.Add(c.ttl)}
}

// Len reports the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
