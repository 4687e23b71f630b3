package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"EventHub/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRedisRankingCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	c := NewRedisRankingCache(rdb, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, 7, []byte(`[{"position":1}]`)))
	payload, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"position":1}]`, string(payload))
	assert.Equal(t, time.Minute, mr.TTL(RankingKey(7)))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok, "snapshot expires")

	require.NoError(t, c.Set(ctx, 7, []byte(`[]`)))
	require.NoError(t, c.Invalidate(ctx, 7))
	assert.False(t, mr.Exists(RankingKey(7)))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, closeFn := New(ctx, config.RedisConfig{}, quietLogger())
	assert.IsType(t, Noop{}, c)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	c, closeFn = New(ctx, config.RedisConfig{Address: mr.Addr(), TTL: time.Minute}, quietLogger())
	defer closeFn()
	assert.IsType(t, &RedisRankingCache{}, c)

	c, closeFn = New(ctx, config.RedisConfig{Address: "127.0.0.1:1"}, quietLogger())
	assert.IsType(t, Noop{}, c, "unreachable redis disables the cache")
	assert.NoError(t, closeFn())
}
