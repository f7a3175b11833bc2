package usecase

import (
	"context"
	"runtime"
	"time"

	"github.com/jonboulle/clockwork"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
)

const (
	ServiceName    = "nhl-fan-insights-backend"
	ServiceVersion = "0.1.0"
)

type IMonitoringUsecase interface {
	Metrics(ctx context.Context) dto.ServiceMetrics
	CacheStats() dto.CacheMetrics
	ResetCacheStats()
	CacheHealth(ctx context.Context) dto.CacheHealth
	DatabaseStats(ctx context.Context) (*dto.DatabaseStats, error)
	RecentLogs(limit int) []logger.RecentEntry
	DetailedHealth(ctx context.Context) dto.DetailedHealth
	Ready(ctx context.Context) error
}

type monitoringUsecase struct {
	games   repository.IGame
	cache   repository.ICache
	clock   clockwork.Clock
	started time.Time
}

func NewMonitoringUsecase(games repository.IGame, c repository.ICache, clock clockwork.Clock) IMonitoringUsecase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &monitoringUsecase{games: games, cache: c, clock: clock, started: clock.Now()}
}

func (u *monitoringUsecase) Metrics(_ context.Context) dto.ServiceMetrics {
	return dto.ServiceMetrics{
		Timestamp: u.clock.Now().UTC(),
		Cache:     u.CacheStats(),
		System:    u.systemStats(),
		Service:   ServiceName,
		Version:   ServiceVersion,
	}
}

func (u *monitoringUsecase) systemStats() dto.SystemStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return dto.SystemStats{
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(mem.HeapAlloc) / (1024 * 1024),
		SysMB:         float64(mem.Sys) / (1024 * 1024),
		NumGC:         mem.NumGC,
		UptimeSeconds: u.clock.Since(u.started).Seconds(),
		NumCPU:        runtime.NumCPU(),
	}
}

func (u *monitoringUsecase) CacheStats() dto.CacheMetrics {
	if u.cache == nil {
		return dto.CacheMetrics{}
	}
	return u.cache.Metrics()
}

func (u *monitoringUsecase) ResetCacheStats() {
	if u.cache != nil {
		u.cache.ResetMetrics()
	}
}

func (u *monitoringUsecase) CacheHealth(ctx context.Context) dto.CacheHealth {
	if u.cache == nil {
		return dto.CacheHealth{Status: "disabled", Message: "Redis caching is disabled"}
	}
	return u.cache.HealthCheck(ctx)
}

func (u *monitoringUsecase) DatabaseStats(ctx context.Context) (*dto.DatabaseStats, error) {
	return u.games.Stats(ctx)
}

func (u *monitoringUsecase) RecentLogs(limit int) []logger.RecentEntry {
	return logger.Recent(limit)
}

func (u *monitoringUsecase) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return u.games.Ping(ctx)
}

func (u *monitoringUsecase) DetailedHealth(ctx context.Context) dto.DetailedHealth {
	health := dto.DetailedHealth{
		Status:     "healthy",
		Timestamp:  u.clock.Now().UTC(),
		Components: map[string]dto.ComponentHealth{},
		System:     u.systemStats(),
	}

	if err := u.Ready(ctx); err != nil {
		health.Status = "unhealthy"
		health.Components["database"] = dto.ComponentHealth{Status: "unhealthy", Message: err.Error()}
	} else {
		health.Components["database"] = dto.ComponentHealth{Status: "healthy", Message: "Connected"}
	}

	ch := u.CacheHealth(ctx)
	component := dto.ComponentHealth{Status: ch.Status, Message: ch.Message}
	if ch.Error != "" {
		component.Message = ch.Error
	}
	health.Components["cache"] = component
	if ch.Status == "unhealthy" && health.Status == "healthy" {
		health.Status = "degraded"
	}
	return health
}
