package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"edudesk/internal/models"
)

// CachedRepository serves Get from Redis when it can and drops cached
// entries on Update and Delete. A Redis failure never fails the call.
type CachedRepository[T any] struct {
	Repository[T]
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCachedRepository[T any](inner Repository[T], rdb *redis.Client, entity models.EntityType, ttl time.Duration) *CachedRepository[T] {
	return &CachedRepository[T]{
		Repository: inner,
		redis:      rdb,
		prefix:     "edudesk:" + entity.String() + ":",
		ttl:        ttl,
	}
}

func (c *CachedRepository[T]) key(id string) string {
	return c.prefix + id
}

func (c *CachedRepository[T]) Get(ctx context.Context, id string) (*Record[T], error) {
	if val, err := c.redis.Get(ctx, c.key(id)).Result(); err == nil {
		var rec Record[T]
		if json.Unmarshal([]byte(val), &rec) == nil {
			return &rec, nil
		}
	}

	rec, err := c.Repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rec); err == nil {
		c.redis.Set(ctx, c.key(id), data, c.ttl)
	}
	return rec, nil
}

func (c *CachedRepository[T]) Update(ctx context.Context, id string, data T) (*Record[T], error) {
	rec, err := c.Repository.Update(ctx, id, data)
	c.redis.Del(ctx, c.key(id))
	return rec, err
}

func (c *CachedRepository[T]) Delete(ctx context.Context, id string) error {
	err := c.Repository.Delete(ctx, id)
	c.redis.Del(ctx, c.key(id))
	return err
}

// Invalidate removes id from the cache.
func (c *CachedRepository[T]) Invalidate(ctx context.Context, id string) error {
	if err := c.redis.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", c.key(id), err)
	}
	return nil
}
