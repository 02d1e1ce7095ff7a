package traffic

import (
	"context"
	"sync"
	"time"
)

// Cache is the storage port for computed traffic patterns. Implementations
// must be safe for concurrent use. A miss is reported via the boolean return,
// not an error.
type Cache interface {
	GetPatterns(ctx context.Context, key string) ([]Pattern, bool, error)
	SetPatterns(ctx context.Context, key string, patterns []Pattern, ttl time.Duration) error
}

// MemoryCache is an in-memory Cache used in tests and single-process setups.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	patterns  []Pattern
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory pattern cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// GetPatterns returns cached patterns for the key if present and unexpired.
func (c *MemoryCache) GetPatterns(_ context.Context, key string) ([]Pattern, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.patterns, true, nil
}

// SetPatterns stores patterns under the key with the given TTL.
func (c *MemoryCache) SetPatterns(_ context.Context, key string, patterns []Pattern, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		patterns:  patterns,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
