package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"edudesk/internal/common/config"
)

const defaultCacheTTL = 5 * time.Minute

// CacheStore is the Redis connection shared by the read-through record caches.
type CacheStore struct {
	Client *redis.Client
	ttl    time.Duration
}

func NewCacheStore(cfg config.RedisConfig) *CacheStore {
	return NewCacheStoreWithClient(redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}), time.Duration(cfg.CacheTTL)*time.Second)
}

// NewCacheStoreWithClient wraps an existing client. A ttl of zero or less
// falls back to five minutes.
func NewCacheStoreWithClient(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CacheStore{Client: client, ttl: ttl}
}

// TTL is how long a cached record lives.
func (s *CacheStore) TTL() time.Duration {
	return s.ttl
}

func (s *CacheStore) Ping(ctx context.Context) error {
	if err := s.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache store unreachable: %w", err)
	}
	return nil
}

func (s *CacheStore) Close() error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Close()
}
