package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhl-fan-insights/infrastructure/cache"
)

type cachedGame struct {
	GameID int64  `json:"game_id"`
	Home   string `json:"home"`
}

func newTestCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, true, "localhost", "6379", 0), srv
}

func TestRedisCache_SetGetInvalidate(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	var out cachedGame
	assert.False(t, c.Get(ctx, cache.GameKey(2024020500), &out))

	require.True(t, c.Set(ctx, cache.GameKey(2024020500), cachedGame{GameID: 2024020500, Home: "SJS"}, 0))
	ttl := srv.TTL(cache.GameKey(2024020500))
	assert.Equal(t, 300*time.Second, ttl)

	require.True(t, c.Get(ctx, cache.GameKey(2024020500), &out))
	assert.Equal(t, cachedGame{GameID: 2024020500, Home: "SJS"}, out)

	assert.True(t, c.Invalidate(ctx, cache.GameKey(2024020500)))
	assert.False(t, c.Invalidate(ctx, cache.GameKey(2024020500)))
	assert.False(t, c.Get(ctx, cache.GameKey(2024020500), &out))

	m := c.Metrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(2), m.Misses)
	assert.Equal(t, int64(3), m.TotalRequests)
	assert.Equal(t, 33.33, m.HitRatePercent)
	assert.Equal(t, 66.67, m.MissRatePercent)
	assert.Equal(t, int64(1), m.Invalidations)
	assert.True(t, m.Enabled)
	assert.True(t, m.Connected)
}

func TestRedisCache_InvalidatePattern(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, cache.RecentGamesKey(10, ""), []int{1}, time.Minute)
	c.Set(ctx, cache.RecentGamesKey(20, "SJS"), []int{2}, time.Minute)
	c.Set(ctx, cache.GameKey(1), cachedGame{GameID: 1}, time.Minute)

	assert.Equal(t, 2, c.InvalidatePattern(ctx, cache.GamesPattern))
	assert.Equal(t, 0, c.InvalidatePattern(ctx, cache.GamesPattern))

	var out cachedGame
	assert.True(t, c.Get(ctx, cache.GameKey(1), &out))
	assert.Equal(t, int64(2), c.Metrics().Invalidations)
}

func TestRedisCache_InvalidatePatternManyKeys(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, srv.Set(fmt.Sprintf("games:recent:%d:", i), "[]"))
	}
	require.NoError(t, srv.Set("standings:current", "{}"))

	assert.Equal(t, 250, c.InvalidatePattern(ctx, cache.GamesPattern))
	assert.Equal(t, []string{"standings:current"}, srv.Keys())
	assert.Equal(t, int64(250), c.Metrics().Invalidations)
}

func TestRedisCache_ResetMetrics(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	var out cachedGame
	c.Get(ctx, "missing", &out)
	before := c.Metrics().LastReset

	c.ResetMetrics()
	m := c.Metrics()
	assert.Zero(t, m.TotalRequests)
	assert.Zero(t, m.HitRatePercent)
	assert.False(t, m.LastReset.Before(before))
}

func TestRedisCache_Disabled(t *testing.T) {
	c := cache.NewRedisCache(nil, true, "localhost", "6379", 0)
	ctx := context.Background()

	var out cachedGame
	assert.False(t, c.Set(ctx, "k", cachedGame{}, time.Minute))
	assert.False(t, c.Get(ctx, "k", &out))
	assert.False(t, c.Invalidate(ctx, "k"))
	assert.Equal(t, 0, c.InvalidatePattern(ctx, "*"))
	assert.Equal(t, "disabled", c.HealthCheck(ctx).Status)
	assert.Zero(t, c.Metrics().TotalRequests)
}

func TestRedisCache_HealthCheck(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	h := c.HealthCheck(ctx)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "localhost", h.Host)

	srv.Close()
	assert.Equal(t, "unhealthy", c.HealthCheck(ctx).Status)
}

func TestRedisCache_ErrorsAreSoft(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()
	srv.Close()

	var out cachedGame
	assert.False(t, c.Get(ctx, "k", &out))
	assert.False(t, c.Set(ctx, "k", cachedGame{}, time.Minute))
	assert.Equal(t, 0, c.InvalidatePattern(ctx, "*"))
	assert.Equal(t, int64(3), c.Metrics().Errors)
}

func TestRemember(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	loads := 0
	load := func(ctx context.Context) (cachedGame, error) {
		loads++
		return cachedGame{GameID: 7, Home: "SJS"}, nil
	}

	first, err := cache.Remember(ctx, c, cache.GameKey(7), time.Minute, load)
	require.NoError(t, err)
	second, err := cache.Remember(ctx, c, cache.GameKey(7), time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)

	_, err = cache.Remember(ctx, c, cache.GameKey(8), time.Minute, func(ctx context.Context) (cachedGame, error) {
		return cachedGame{}, errors.New("db down")
	})
	assert.Error(t, err)
}
