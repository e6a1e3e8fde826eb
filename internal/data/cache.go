package data

import (
	"os"
	"sync"
	"time"
)

// CacheEntry is one cached dataset plus the file state it was loaded from.
type CacheEntry struct {
	Dataset   *Dataset
	ModTime   time.Time
	ExpiresAt time.Time
}

// DatasetCache avoids re-parsing large dataset files on every API request.
// Entries are invalidated when the file's mtime changes or the TTL lapses.
type DatasetCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
}

var globalCache *DatasetCache
var cacheOnce sync.Once

// GetCache returns the process-wide dataset cache, or nil when caching is
// disabled. Enable with ENABLE_DATASET_CACHE=true; TTL is configurable via
// DATASET_CACHE_TTL (Go duration syntax, default 1h).
func GetCache() *DatasetCache {
	if os.Getenv("ENABLE_DATASET_CACHE") != "true" {
		return nil
	}
	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("DATASET_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}
		globalCache = &DatasetCache{
			store: make(map[string]*CacheEntry),
			ttl:   ttl,
		}
		go globalCache.cleanup()
	})
	return globalCache
}

// Load returns the dataset at path, from cache when fresh. A nil receiver
// always loads from disk.
func (c *DatasetCache) Load(path string) (*Dataset, error) {
	if c == nil {
		return LoadDatasetJSON(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.store[path]
	c.mu.RUnlock()
	if ok && entry.ModTime.Equal(info.ModTime()) && time.Now().Before(entry.ExpiresAt) {
		return entry.Dataset, nil
	}

	d, err := LoadDatasetJSON(path)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store[path] = &CacheEntry{
		Dataset:   d,
		ModTime:   info.ModTime(),
		ExpiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
	return d, nil
}

// Clear removes all entries.
func (c *DatasetCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*CacheEntry)
}

func (c *DatasetCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}
