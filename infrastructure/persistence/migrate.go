package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"nhl-fan-insights/infrastructure/logger"
)

// Migrate creates or updates every table on the given pool, then applies the indexes gorm
// tags cannot express.
func Migrate(db *sql.DB) error {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: false,
	})
	if err != nil {
		return fmt.Errorf("open gorm over postgres pool: %w", err)
	}
	if err := gdb.AutoMigrate(schemaModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureSchema(db)
}

var extraIndexes = []struct {
	name string
	ddl  string
}{
	{"uq_open_stint", `CREATE UNIQUE INDEX IF NOT EXISTS uq_open_stint ON player_team_history (player_id, team_id) WHERE end_date IS NULL`},
	{"ix_games_pending_videos", `CREATE INDEX IF NOT EXISTS ix_games_pending_videos ON games (status) WHERE videos_fetched = false`},
}

// EnsureSchema applies partial indexes. Safe to call at every startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, idx := range extraIndexes {
		if _, err := db.ExecContext(ctx, idx.ddl); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	logger.GetLogger().WithField("indexes", len(extraIndexes)).Info("Database schema ensured")
	return nil
}
