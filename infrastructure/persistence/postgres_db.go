package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"nhl-fan-insights/infrastructure/configuration"
	"nhl-fan-insights/infrastructure/logger"
)

// NewPostgreSQLDB opens the lib/pq pool described by cfg and verifies it with a ping.
func NewPostgreSQLDB(ctx context.Context, cfg configuration.Db) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"host": cfg.Host,
		"name": cfg.Name,
	}).Info("PostgreSQL connected")
	return db, nil
}
