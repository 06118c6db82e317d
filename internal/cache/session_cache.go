package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

// SessionCache keeps recently resolved sharing sessions so dashboard polling
// does not hit the database on every request. A miss is never an error.
type SessionCache interface {
	Get(ctx context.Context, id string) (*domain.SharingSession, bool)
	Set(ctx context.Context, session domain.SharingSession)
	Delete(ctx context.Context, id string)
}

type memoryEntry struct {
	session   domain.SharingSession
	expiresAt time.Time
}

// MemorySessionCache is the in-process cache used when Redis is not configured.
type MemorySessionCache struct {
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
	mu      sync.RWMutex
}

func NewMemorySessionCache(ttl time.Duration) *MemorySessionCache {
	return &MemorySessionCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemorySessionCache) Get(_ context.Context, id string) (*domain.SharingSession, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, false
	}
	session := entry.session
	return &session, true
}

func (c *MemorySessionCache) Set(_ context.Context, session domain.SharingSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[session.ID] = memoryEntry{session: session, expiresAt: c.now().Add(c.ttl)}
}

func (c *MemorySessionCache) Delete(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of entries, expired ones included.
func (c *MemorySessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
