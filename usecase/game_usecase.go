package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/cache"
	"nhl-fan-insights/infrastructure/logger"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

type IGameUsecase interface {
	GetRecent(ctx context.Context, limit int, team string) ([]dto.GameSummary, error)
	GetDetail(ctx context.Context, gameID int64) (*dto.GameDetail, error)
	Create(ctx context.Context, req dto.CreateGameRequest) (*model.Game, error)
	Update(ctx context.Context, gameID int64, update model.GameUpdate) (*model.Game, error)
	Delete(ctx context.Context, gameID int64) error
}

type gameUsecase struct {
	games      repository.IGame
	videos     repository.IVideo
	quotes     repository.IQuote
	milestones repository.IMilestone
	cache      repository.ICache
	events     repository.IGameEventPublisher
	clock      clockwork.Clock
	ttl        time.Duration
}

func NewGameUsecase(games repository.IGame, videos repository.IVideo, quotes repository.IQuote, milestones repository.IMilestone, c repository.ICache, events repository.IGameEventPublisher, clock clockwork.Clock, ttl time.Duration) IGameUsecase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = cache.DefaultTTL * time.Second
	}
	return &gameUsecase{games: games, videos: videos, quotes: quotes, milestones: milestones, cache: c, events: events, clock: clock, ttl: ttl}
}

func (u *gameUsecase) GetRecent(ctx context.Context, limit int, team string) ([]dto.GameSummary, error) {
	if limit < 1 || limit > MaxRecentLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", MaxRecentLimit, model.ErrInvalidInput)
	}
	return cache.Remember(ctx, u.cache, cache.RecentGamesKey(limit, team), u.ttl, func(ctx context.Context) ([]dto.GameSummary, error) {
		games, err := u.games.ListRecent(ctx, limit, team, model.CompletedStatuses)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(games))
		for _, g := range games {
			ids = append(ids, g.GameID)
		}
		withVideos, err := u.videos.GameIDsWithVideos(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make([]dto.GameSummary, 0, len(games))
		for _, g := range games {
			out = append(out, dto.GameSummary{
				GameID:    g.GameID,
				GameDate:  g.GameDateUTC,
				AwayTeam:  g.AwayTeam,
				HomeTeam:  g.HomeTeam,
				AwayScore: g.AwayScore,
				HomeScore: g.HomeScore,
				Status:    g.Status,
				HasVideos: withVideos[g.GameID],
			})
		}
		return out, nil
	})
}

func (u *gameUsecase) GetDetail(ctx context.Context, gameID int64) (*dto.GameDetail, error) {
	return cache.Remember(ctx, u.cache, cache.GameKey(gameID), u.ttl, func(ctx context.Context) (*dto.GameDetail, error) {
		game, err := u.games.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		videos, err := u.videos.ListByGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		quotes, err := u.quotes.ListByGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		milestones, err := u.milestones.ListByGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return buildGameDetail(game, videos, quotes, milestones), nil
	})
}

func buildGameDetail(game *model.Game, videos []model.Video, quotes []model.Quote, milestones []model.Milestone) *dto.GameDetail {
	detail := &dto.GameDetail{
		GameID:            game.GameID,
		GameDateUTC:       game.GameDateUTC,
		Status:            game.Status,
		AwayTeam:          game.AwayTeam,
		HomeTeam:          game.HomeTeam,
		AwayScore:         game.AwayScore,
		HomeScore:         game.HomeScore,
		Scorers:           game.Scorers,
		RecapText:         game.RecapText,
		SummaryLine:       game.SummaryLine,
		NextGameStoryline: game.NextGameStoryline,
		Videos:            make([]dto.VideoSummary, 0, len(videos)),
		Goals:             []model.Goal{},
		Quotes:            quotes,
		Milestones:        milestones,
		StandingsSnapshot: game.StandingsSnapshot,
		NextOpponent:      game.NextOpponent,
		NextGameDate:      game.NextGameDate,
	}
	if detail.Scorers == nil {
		detail.Scorers = []string{}
	}
	if game.Raw != nil && game.Raw.Goals != nil {
		detail.Goals = game.Raw.Goals
	}
	for _, v := range videos {
		youtubeID := v.YouTubeID
		switch v.VideoType {
		case model.VideoTypeNHLOfficial:
			if detail.NHLVideoID == nil {
				detail.NHLVideoID = &youtubeID
			}
		case model.VideoTypeProfessorHockey:
			if detail.ProfessorHockeyVideoID == nil {
				detail.ProfessorHockeyVideoID = &youtubeID
			}
		}
		detail.Videos = append(detail.Videos, dto.VideoSummary{
			ID:           v.ID,
			YouTubeID:    v.YouTubeID,
			Title:        v.Title,
			VideoType:    v.VideoType,
			ChannelName:  v.ChannelName,
			ThumbnailURL: v.ThumbnailURL,
		})
	}
	return detail
}

func (u *gameUsecase) Create(ctx context.Context, req dto.CreateGameRequest) (*model.Game, error) {
	status := req.Status
	if status == "" {
		status = model.GameStatusScheduled
	}
	now := u.clock.Now()
	game := &model.Game{
		GameID:          req.GameID,
		GameDateUTC:     req.GameDateUTC.UTC(),
		Status:          status,
		HomeTeam:        req.HomeTeam,
		AwayTeam:        req.AwayTeam,
		HomeScore:       req.HomeScore,
		AwayScore:       req.AwayScore,
		Scorers:         []string{},
		StatusUpdatedAt: &now,
	}
	if err := u.games.Create(ctx, game); err != nil {
		return nil, err
	}
	invalidateGame(ctx, u.cache, game.GameID)
	logger.WithContext(ctx).WithField("gameId", game.GameID).Info("Game created")
	return game, nil
}

func (u *gameUsecase) Update(ctx context.Context, gameID int64, update model.GameUpdate) (*model.Game, error) {
	game, err := u.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	from := game.Status
	if update.Status != nil && !from.CanAdvanceTo(*update.Status) {
		return nil, fmt.Errorf("status cannot move from %s to %s: %w", from, *update.Status, model.ErrInvalidInput)
	}
	now := u.clock.Now()
	update.Apply(game, now)
	if game.Status != from {
		switch game.Status {
		case model.GameStatusComplete:
			game.CompletedAt = &now
		case model.GameStatusArchived:
			game.ArchivedAt = &now
		}
	}
	if err := u.games.Save(ctx, game); err != nil {
		return nil, err
	}
	invalidateGame(ctx, u.cache, gameID)

	if u.events != nil && game.Status != from {
		event := model.GameStatusEvent{GameID: gameID, From: from, To: game.Status, At: now}
		if err := u.events.PublishGameEvent(ctx, event); err != nil {
			logger.WithContext(ctx).WithField("error", err).Warn("Game event publish failed")
		}
	}
	return game, nil
}

func (u *gameUsecase) Delete(ctx context.Context, gameID int64) error {
	if err := u.games.Delete(ctx, gameID); err != nil {
		return err
	}
	invalidateGame(ctx, u.cache, gameID)
	logger.WithContext(ctx).WithField("gameId", gameID).Info("Game deleted")
	return nil
}
