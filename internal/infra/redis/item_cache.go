package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sort"
	"time"

	"butterfly-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ItemLoader fetches the catalog from a backing store.
type ItemLoader interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
}

// ItemCache caches the catalog in Redis and falls back to a loader on cache miss.
// Items are stored as: HSET catalog:items {itemID} {item JSON}
// Invalidate bumps catalog:items:version; a load that started under an older
// version does not write its listing back.
type ItemCache struct {
	client *redis.Client
	loader ItemLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewItemCache(client *redis.Client, loader ItemLoader, ttl time.Duration) *ItemCache {
	return &ItemCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ItemCache) ListItems(ctx context.Context) ([]domain.Item, error) {
	if items, ok := c.cached(ctx); ok {
		return items, nil
	}

	result, err, _ := c.sf.Do(itemsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if items, ok := c.cached(ctx); ok {
			return items, nil
		}

		version, verr := c.version(ctx)

		items, err := c.loader.ListItems(ctx)
		if err != nil {
			return nil, err
		}
		if verr != nil {
			log.Printf("read catalog version: %v", verr)
		} else if err := c.store(ctx, version, items); err != nil {
			log.Printf("cache catalog: %v", err)
		}

		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Item(nil), result.([]domain.Item)...), nil
}

// Invalidate drops the cached catalog so the next read goes to the loader.
func (c *ItemCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Del(ctx, itemsKey)
		return nil
	})
	if err != nil {
		log.Printf("invalidate catalog cache: %v", err)
	}
	c.sf.Forget(itemsKey)
}

func (c *ItemCache) version(ctx context.Context) (string, error) {
	v, err := c.client.Get(ctx, versionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// store writes items unless the version moved since the load began.
func (c *ItemCache) store(ctx context.Context, version string, items []domain.Item) error {
	ttl := c.ttlWithJitter()
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, itemsKey)
			for _, item := range items {
				data, err := json.Marshal(item)
				if err != nil {
					continue
				}
				pipe.HSet(ctx, itemsKey, item.ID, data)
			}
			if ttl > 0 {
				pipe.Expire(ctx, itemsKey, ttl)
			}
			return nil
		})
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *ItemCache) cached(ctx context.Context) ([]domain.Item, bool) {
	raw, err := c.client.HGetAll(ctx, itemsKey).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	items := make([]domain.Item, 0, len(raw))
	for _, data := range raw {
		var item domain.Item
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, false
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
	return items, true
}

func (c *ItemCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

const (
	itemsKey   = "catalog:items"
	versionKey = "catalog:items:version"
)
