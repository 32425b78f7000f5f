package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"butterfly-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ItemLoader fetches the catalog from a backing store.
type ItemLoader interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
}

// ItemCache caches the catalog listing with a TTL to avoid hitting the store on every question.
type ItemCache struct {
	loader ItemLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	items     []domain.Item
	expiresAt time.Time
	filled    bool
	// gen is bumped by Invalidate; a load started under an older gen is not stored.
	gen uint64
}

func NewItemCache(loader ItemLoader, ttl time.Duration) *ItemCache {
	return &ItemCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ItemCache) ListItems(ctx context.Context) ([]domain.Item, error) {
	if items, ok := c.cached(c.clock()); ok {
		return items, nil
	}

	result, err, _ := c.sf.Do("items", func() (interface{}, error) {
		now := c.clock()
		if items, ok := c.cached(now); ok {
			return items, nil
		}

		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		items, err := c.loader.ListItems(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.items = items
			c.expiresAt = now.Add(c.ttlWithJitter())
			c.filled = true
		}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return copyItems(result.([]domain.Item)), nil
}

// Invalidate forces the next ListItems to reload.
func (c *ItemCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	c.gen++
	c.filled = false
	c.items = nil
	c.mu.Unlock()
	c.sf.Forget("items")
}

func (c *ItemCache) cached(now time.Time) ([]domain.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.filled && c.expiresAt.After(now) {
		return copyItems(c.items), true
	}
	return nil, false
}

func (c *ItemCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func copyItems(items []domain.Item) []domain.Item {
	return append([]domain.Item(nil), items...)
}
