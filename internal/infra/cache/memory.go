// Package cache provides the in-process session cache implementation.
package cache

import (
	"context"
	"sync"
	"time"

	"warden/internal/domain/entity"
	"warden/internal/domain/repository"
)

type cacheEntry struct {
	user      *entity.User
	expiresAt time.Time
}

// memoryCache is a mutex-guarded map with per-entry TTLs. Entries expire
// lazily on read; Put overwrites unconditionally, which keeps repeated puts
// for the same request idempotent.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache is the constructor for the in-memory SessionCache.
func NewMemoryCache() repository.SessionCache {
	return newMemoryCache(time.Now)
}

func newMemoryCache(now func() time.Time) *memoryCache {
	return &memoryCache{
		entries: make(map[string]cacheEntry),
		now:     now,
	}
}

// Get returns the cached identity for key, or repository.ErrCacheMiss.
func (c *memoryCache) Get(_ context.Context, key string) (*entity.User, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, repository.ErrCacheMiss
	}
	if !c.now().Before(entry.expiresAt) {
		// Expired entries are equivalent to misses; drop them on the way out.
		c.mu.Lock()
		if current, still := c.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		return nil, repository.ErrCacheMiss
	}

	return entry.user, nil
}

// Put stores the identity under key for at most ttl.
func (c *memoryCache) Put(_ context.Context, key string, user *entity.User, ttl time.Duration) error {
	if user == nil || ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{
		user:      user,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()

	return nil
}

// Invalidate removes the entry for key, if any.
func (c *memoryCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}
