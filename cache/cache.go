package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/fitscout/fitscout/models"
)

// entry holds a cached merged result set with its creation timestamp.
type entry struct {
	results   []models.Product
	createdAt time.Time
}

// Cache is a simple in-memory cache of merged search results, keyed by
// query. It is safe for concurrent use. Results never touch disk; this only
// spares the browser a relaunch for repeated identical queries.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries older
// than 1 hour.
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the three query fields.
func Key(q models.Query) string {
	h := sha256.New()
	h.Write([]byte(q.Product))
	h.Write([]byte("|"))
	h.Write([]byte(q.Weight))
	h.Write([]byte("|"))
	h.Write([]byte(q.Flavor))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves cached results if they exist and are younger than maxAge.
// If maxAge <= 0, no lookup is performed.
func (c *Cache) Get(key string, maxAge time.Duration) ([]models.Product, bool) {
	if maxAge <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(e.createdAt) > maxAge {
		return nil, false
	}

	return e.results, true
}

// Set stores a result set in the cache. If the cache is at capacity,
// a random entry is evicted to make room.
func (c *Cache) Set(key string, results []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		results:   results,
		createdAt: time.Now(),
	}
}

// cleanupLoop evicts entries older than 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
