// Package cache wraps a DatasetLoader with an in-memory cache so
// repeated operations against the same file parse it once.
package cache

import (
	"os"
	"sync"
	"time"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/port"
)

type CachingLoader struct {
	inner   port.DatasetLoader
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	dataset   *domain.Dataset
	modTime   time.Time
	timestamp time.Time
}

func NewCachingLoader(inner port.DatasetLoader, maxSize int, ttl time.Duration) *CachingLoader {
	if maxSize <= 0 {
		maxSize = 4
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingLoader{
		inner:   inner,
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Load returns the cached dataset for path unless the file changed on
// disk or the entry expired.
func (c *CachingLoader) Load(path string) (*domain.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, exists := c.entries[path]
	c.mu.RUnlock()

	if exists && entry.modTime.Equal(info.ModTime()) && time.Since(entry.timestamp) <= c.ttl {
		return entry.dataset, nil
	}

	ds, err := c.inner.Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[path]; !exists {
		if len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, path)
	}
	c.entries[path] = &cacheEntry{
		dataset:   ds,
		modTime:   info.ModTime(),
		timestamp: time.Now(),
	}
	return ds, nil
}

// Invalidate drops the cached entry for path.
func (c *CachingLoader) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
