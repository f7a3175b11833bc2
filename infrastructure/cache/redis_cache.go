package cache

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/infrastructure/metrics"
)

// RedisCache is a JSON cache over Redis. Every failure is counted and swallowed.
type RedisCache struct {
	client  *redis.Client
	enabled bool
	host    string
	port    string
	db      int

	mu            sync.Mutex
	hits          int64
	misses        int64
	invalidations int64
	errors        int64
	lastReset     time.Time
}

var _ repository.ICache = (*RedisCache)(nil)

// NewRedisCache wraps client. A nil client or enabled=false yields a disabled cache whose reads
// miss and writes no-op.
func NewRedisCache(client *redis.Client, enabled bool, host, port string, db int) *RedisCache {
	return &RedisCache{
		client:    client,
		enabled:   enabled && client != nil,
		host:      host,
		port:      port,
		db:        db,
		lastReset: time.Now().UTC(),
	}
}

func (c *RedisCache) active() bool {
	return c.enabled && c.client != nil
}

// Get decodes the cached JSON for key into dest and reports a hit.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.active() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) || (err == nil && len(raw) == 0) {
		c.count(&c.misses)
		metrics.RecordCache("get", false)
		logger.GetLogger().WithField("key", key).Debug("Cache MISS")
		return false
	}
	if err != nil {
		c.count(&c.errors)
		logger.GetLogger().WithField("key", key).WithField("error", err).Error("Cache GET error")
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.count(&c.errors)
		logger.GetLogger().WithField("key", key).WithField("error", err).Error("Cache decode error")
		return false
	}
	c.count(&c.hits)
	metrics.RecordCache("get", true)
	logger.GetLogger().WithField("key", key).Debug("Cache HIT")
	return true
}

// Set stores value as JSON with the given TTL (DefaultTTL seconds when ttl <= 0).
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	if !c.active() {
		return false
	}
	if ttl <= 0 {
		ttl = DefaultTTL * time.Second
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.count(&c.errors)
		logger.GetLogger().WithField("key", key).WithField("error", err).Error("Cache encode error")
		return false
	}
	if err := c.client.SetEx(ctx, key, payload, ttl).Err(); err != nil {
		c.count(&c.errors)
		metrics.RecordCache("set", false)
		logger.GetLogger().WithField("key", key).WithField("error", err).Error("Cache SET error")
		return false
	}
	metrics.RecordCache("set", true)
	return true
}

// Invalidate deletes key and reports whether it existed.
func (c *RedisCache) Invalidate(ctx context.Context, key string) bool {
	if !c.active() {
		return false
	}
	deleted, err := c.client.Del(ctx, key).Result()
	if err != nil {
		c.count(&c.errors)
		logger.GetLogger().WithField("key", key).WithField("error", err).Error("Cache INVALIDATE error")
		return false
	}
	if deleted > 0 {
		c.add(&c.invalidations, deleted)
		metrics.RecordCache("invalidate", true)
		logger.GetLogger().WithField("key", key).Info("Cache INVALIDATED")
	}
	return deleted > 0
}

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 100

// InvalidatePattern deletes every key matching pattern and returns how many were removed.
// Keys are walked with SCAN and deleted one batch at a time.
func (c *RedisCache) InvalidatePattern(ctx context.Context, pattern string) int {
	if !c.active() {
		return 0
	}
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			c.count(&c.errors)
			logger.GetLogger().WithField("pattern", pattern).WithField("error", err).Error("Cache INVALIDATE PATTERN error")
			break
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.count(&c.errors)
				logger.GetLogger().WithField("pattern", pattern).WithField("error", err).Error("Cache INVALIDATE PATTERN error")
				break
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		c.add(&c.invalidations, deleted)
		logger.GetLogger().WithFields(map[string]interface{}{"pattern": pattern, "deleted": deleted}).Info("Cache INVALIDATED PATTERN")
	}
	return int(deleted)
}

func (c *RedisCache) Metrics() dto.CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	var hitRate, missRate float64
	if total > 0 {
		hitRate = round2(float64(c.hits) / float64(total) * 100)
		missRate = round2(float64(c.misses) / float64(total) * 100)
	}
	return dto.CacheMetrics{
		Enabled:         c.enabled,
		Connected:       c.client != nil,
		TotalRequests:   total,
		Hits:            c.hits,
		Misses:          c.misses,
		HitRatePercent:  hitRate,
		MissRatePercent: missRate,
		Invalidations:   c.invalidations,
		Errors:          c.errors,
		LastReset:       c.lastReset,
	}
}

func (c *RedisCache) ResetMetrics() {
	c.mu.Lock()
	c.hits, c.misses, c.invalidations, c.errors = 0, 0, 0, 0
	c.lastReset = time.Now().UTC()
	c.mu.Unlock()
	logger.GetLogger().Info("Cache metrics reset")
}

func (c *RedisCache) HealthCheck(ctx context.Context) dto.CacheHealth {
	if !c.enabled {
		return dto.CacheHealth{Status: "disabled", Message: "Redis caching is disabled"}
	}
	if c.client == nil {
		return dto.CacheHealth{Status: "unhealthy", Message: "Redis client not initialized"}
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return dto.CacheHealth{Status: "unhealthy", Message: err.Error()}
	}
	return dto.CacheHealth{Status: "healthy", Host: c.host, Port: c.port, DB: c.db}
}

func (c *RedisCache) count(counter *int64) { c.add(counter, 1) }

func (c *RedisCache) add(counter *int64, n int64) {
	c.mu.Lock()
	*counter += n
	c.mu.Unlock()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Remember returns the cached value for key, or loads, caches and returns it.
func Remember[T any](ctx context.Context, c repository.ICache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if c != nil && c.Get(ctx, key, &cached) {
		return cached, nil
	}
	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if c != nil {
		c.Set(ctx, key, value, ttl)
	}
	return value, nil
}
