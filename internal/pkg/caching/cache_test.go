package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *RedisCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c, err := NewRedisCache(client)
	require.NoError(t, err)
	return c
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	v, err := Remember(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)

	v, err = Remember(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err = Remember(ctx, c, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRememberCallbackError(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	boom := errors.New("boom")
	_, err := Remember(ctx, c, "k", time.Minute, func() (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)

	var target int
	assert.Error(t, c.Get(ctx, "k", &target))
}
