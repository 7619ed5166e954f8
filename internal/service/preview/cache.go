package preview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// DefaultTTL is how long a generated batch can be committed.
const DefaultTTL = time.Hour

// ErrExpiredOrUnknownToken is returned when a token names no batch, its batch
// has expired, or it was already committed.
var ErrExpiredOrUnknownToken = errors.New("preview token expired or unknown")

// Cache holds preview batches between Generate and Commit.
type Cache interface {
	// Put stores batch under batch.Token.
	Put(ctx context.Context, batch *domain.PreviewBatch) error

	// Pop removes and returns the batch stored under token. Two concurrent
	// Pops of one token never both succeed.
	// Returns ErrExpiredOrUnknownToken if there is no live batch.
	Pop(ctx context.Context, token string) (*domain.PreviewBatch, error)
}

// MemoryCache is a process-local Cache. Expired entries are swept on every
// Put; there is no background goroutine.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// cacheEntry ages from the cache's own clock, not the batch's CreatedAt.
type cacheEntry struct {
	batch    *domain.PreviewBatch
	storedAt time.Time
}

func (e cacheEntry) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.storedAt) > ttl
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a MemoryCache. A ttl of zero or less means
// DefaultTTL; a nil now means time.Now.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Put implements Cache.
func (c *MemoryCache) Put(_ context.Context, batch *domain.PreviewBatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for token, e := range c.entries {
		if e.expired(now, c.ttl) {
			delete(c.entries, token)
		}
	}
	c.entries[batch.Token] = cacheEntry{batch: batch, storedAt: now}
	return nil
}

// Pop implements Cache.
func (c *MemoryCache) Pop(_ context.Context, token string) (*domain.PreviewBatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[token]
	if !ok {
		return nil, ErrExpiredOrUnknownToken
	}
	delete(c.entries, token)

	if e.expired(c.now(), c.ttl) {
		return nil, ErrExpiredOrUnknownToken
	}
	return e.batch, nil
}

// Len returns the number of stored batches, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
