// Package caching keeps read-mostly ledger views (leaderboard pages, config
// values, the shop catalog) in Redis for a short TTL.
package caching

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// Cache is shared by every engine process, so a Delete from one process is
// seen by the others on their next read.
type Cache interface {
	Get(ctx context.Context, key string, target any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Remember returns the value stored under key. On a miss it calls load and
// stores the result for ttl. A failed store is ignored since the value is
// already in hand, but a failed read is returned as is.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var v T
	err := c.Get(ctx, key, &v)
	if !errors.Is(err, cache.ErrCacheMiss) {
		return v, err
	}

	v, err = load()
	if err != nil {
		return v, err
	}

	//nolint:errcheck
	c.Set(ctx, key, v, ttl)
	return v, nil
}

// RedisCache stores msgpack encoded values directly in Redis with no
// in-process tier, which would let processes serve stale config after a
// SetConfig elsewhere.
type RedisCache struct {
	codec *cache.Cache
}

func NewRedisCache(client redis.UniversalClient) (*RedisCache, error) {
	if client == nil {
		return nil, errors.New("caching: nil redis client")
	}
	return &RedisCache{codec: cache.New(&cache.Options{Redis: client})}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, target any) error {
	return c.codec.Get(ctx, key, target)
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.codec.Set(&cache.Item{Ctx: ctx, Key: key, Value: value, TTL: ttl})
}

// Delete treats an absent key as already invalidated.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.codec.Delete(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}
