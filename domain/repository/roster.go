package repository

import (
	"context"
	"time"

	"nhl-fan-insights/domain/model"
)

// IRosterTx is the write surface available inside one roster reconciliation transaction.
type IRosterTx interface {
	OpenStints(ctx context.Context, teamID string) ([]model.PlayerTeamHistory, error)
	GetPlayer(ctx context.Context, playerID int64) (*model.PlayerInfo, error)
	UpsertPlayer(ctx context.Context, player *model.PlayerInfo) error
	CloseStint(ctx context.Context, playerID int64, teamID string, endDate time.Time) error
	OpenStint(ctx context.Context, stint *model.PlayerTeamHistory) error
}

type IRoster interface {
	// WithinTx runs fn in one transaction, rolling back when fn returns an error.
	WithinTx(ctx context.Context, fn func(tx IRosterTx) error) error
	CurrentRoster(ctx context.Context, teamID string) ([]model.RosterEntry, error)
	PlayerHistory(ctx context.Context, playerID int64) ([]model.PlayerTeamHistory, error)
	GetPlayer(ctx context.Context, playerID int64) (*model.PlayerInfo, error)
}
