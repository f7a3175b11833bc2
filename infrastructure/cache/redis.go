package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"nhl-fan-insights/infrastructure/logger"
)

// NewCache connects to Redis and pings it once. The client is returned even when the ping
// fails so callers can decide to run degraded.
func NewCache(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Username:     username,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.GetLogger().WithField("addr", addr).WithField("error", err).Error("Redis connection failed")
		return client, err
	}
	logger.GetLogger().WithField("addr", addr).Info("Redis connected")
	return client, nil
}
