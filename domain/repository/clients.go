package repository

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
)

// INHL reads the public NHL stats API.
type INHL interface {
	FetchTeamSchedule(ctx context.Context, team string, from time.Time) ([]dto.NHLScheduleGame, error)
	// FetchBoxscore returns the decoded boxscore and the raw body.
	FetchBoxscore(ctx context.Context, gameID int64) (*dto.NHLBoxscore, json.RawMessage, error)
	FetchPlayByPlay(ctx context.Context, gameID int64) (*dto.NHLPlayByPlay, error)
	FetchRoster(ctx context.Context, team string) (*dto.NHLRoster, error)
	FetchStandings(ctx context.Context) (*dto.NHLStandings, error)
	FetchPlayerLanding(ctx context.Context, playerID int64) (json.RawMessage, error)
}

type IHighlightSearch interface {
	SearchGameHighlights(ctx context.Context, req dto.HighlightSearchRequest) (*dto.HighlightSearchResult, error)
	SearchGoalClip(ctx context.Context, req dto.GoalClipRequest) ([]dto.YouTubeVideo, error)
}

type IRecapGenerator interface {
	GenerateRecap(ctx context.Context, req dto.RecapRequest) (*dto.RecapResult, error)
}

type IReddit interface {
	FindGameThread(ctx context.Context, awayTeam, homeTeam string, gameDate time.Time) (*dto.RedditThing, error)
	GetGameDiscussion(ctx context.Context, awayTeam, homeTeam string, gameDate time.Time, limit int) (*dto.RedditGameDiscussion, error)
}

// IAuthVerifier resolves a bearer token into a verified identity.
type IAuthVerifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

// IGameEventPublisher receives game status transitions.
type IGameEventPublisher interface {
	PublishGameEvent(ctx context.Context, event model.GameStatusEvent) error
}
