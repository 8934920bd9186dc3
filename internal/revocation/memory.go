package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache for tests and single-node development.
// Expired entries are dropped lazily on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]time.Time // token -> expiry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]time.Time)}
}

// Put records the token as revoked for ttl. No-op when ttl is non-positive.
func (c *MemoryCache) Put(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = time.Now().Add(ttl)
	return nil
}

// Exists reports whether the token is blacklisted.
func (c *MemoryCache) Exists(ctx context.Context, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp, ok := c.entries[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(c.entries, token)
		return false, nil
	}
	return true, nil
}
