package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	appricing "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryCatalogCache caches resolved customer catalogs in process memory.
// Suitable for single-instance deployments and testing.
// WARNING: in-memory caches do not share invalidations across process
// instances, which can serve stale catalogs in distributed deployments.
type InMemoryCatalogCache struct {
	entries sync.Map // map[uuid.UUID]*catalogEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

type catalogEntry struct {
	entries   []appricing.CatalogEntryResponse
	expiresAt time.Time
}

func (e *catalogEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryCatalogCacheOption is a functional option for configuring the cache
type InMemoryCatalogCacheOption func(*InMemoryCatalogCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryCatalogCacheOption {
	return func(c *InMemoryCatalogCache) {
		c.logger = logger
	}
}

// NewInMemoryCatalogCache creates a new in-memory catalog cache
func NewInMemoryCatalogCache(ttl time.Duration, opts ...InMemoryCatalogCacheOption) *InMemoryCatalogCache {
	cache := &InMemoryCatalogCache{
		ttl:    ttl,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached catalog for a customer
func (c *InMemoryCatalogCache) Get(ctx context.Context, customerID uuid.UUID) ([]appricing.CatalogEntryResponse, bool) {
	if value, ok := c.entries.Load(customerID); ok {
		entry := value.(*catalogEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.entries, true
		}
		c.entries.Delete(customerID)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

// Set stores a resolved catalog with the configured TTL
func (c *InMemoryCatalogCache) Set(ctx context.Context, customerID uuid.UUID, entries []appricing.CatalogEntryResponse) {
	c.entries.Store(customerID, &catalogEntry{
		entries:   entries,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate removes a customer's cached catalog
func (c *InMemoryCatalogCache) Invalidate(ctx context.Context, customerID uuid.UUID) {
	c.entries.Delete(customerID)
}

// Stats returns hit and miss counters
func (c *InMemoryCatalogCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Stop terminates the background cleanup goroutine
func (c *InMemoryCatalogCache) Stop() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

// cleanupExpired periodically removes expired entries so memory does not
// grow unbounded between reads
func (c *InMemoryCatalogCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value interface{}) bool {
				if value.(*catalogEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("evicted expired catalog entries", zap.Int("count", removed))
			}
		}
	}
}

// Ensure InMemoryCatalogCache implements CatalogCache
var _ appricing.CatalogCache = (*InMemoryCatalogCache)(nil)
