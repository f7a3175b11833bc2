package repository

import (
	"context"
	"time"

	"nhl-fan-insights/domain/dto"
)

// ICache is a best-effort JSON cache. Failures surface as misses and no-ops.
type ICache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool
	Invalidate(ctx context.Context, key string) bool
	InvalidatePattern(ctx context.Context, pattern string) int
	Metrics() dto.CacheMetrics
	ResetMetrics()
	HealthCheck(ctx context.Context) dto.CacheHealth
}
