package repository

import (
	"context"
	"time"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
)

// IGame persists games. Lookups of an unknown id return model.ErrNotFound.
type IGame interface {
	GetByID(ctx context.Context, gameID int64) (*model.Game, error)
	Create(ctx context.Context, game *model.Game) error
	Save(ctx context.Context, game *model.Game) error
	Delete(ctx context.Context, gameID int64) error
	ListRecent(ctx context.Context, limit int, team string, statuses []model.GameStatus) ([]model.Game, error)
	ListWithStats(ctx context.Context) ([]model.Game, error)
	ListMissingVideos(ctx context.Context, statuses []model.GameStatus) ([]model.Game, error)
	// CountTeamGamesThrough counts the team's games played on or before the given game,
	// ordered by kickoff then game id.
	CountTeamGamesThrough(ctx context.Context, team string, kickoff time.Time, gameID int64) (int, error)
	NextScheduled(ctx context.Context, team string, after time.Time) (*model.Game, error)
	Stats(ctx context.Context) (*dto.DatabaseStats, error)
	Ping(ctx context.Context) error
}

type IVideo interface {
	Exists(ctx context.Context, gameID int64, youtubeID string) (bool, error)
	// Create inserts the video and reports whether a row was written.
	Create(ctx context.Context, video *model.Video) (bool, error)
	ListByGame(ctx context.Context, gameID int64) ([]model.Video, error)
	GameIDsWithVideos(ctx context.Context, gameIDs []int64) (map[int64]bool, error)
}

type IQuote interface {
	ListByGame(ctx context.Context, gameID int64) ([]model.Quote, error)
}

type IMilestone interface {
	ListByGame(ctx context.Context, gameID int64) ([]model.Milestone, error)
}
