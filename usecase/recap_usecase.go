package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/clients/nhl"
	"nhl-fan-insights/infrastructure/logger"
)

type IRecapUsecase interface {
	// Get returns the stored boxscore recap. Unknown games are fetched and stored first.
	Get(ctx context.Context, gameID int64) (*dto.BoxscoreRecap, error)
	All(ctx context.Context) ([]dto.BoxscoreRecap, error)
}

type recapUsecase struct {
	games repository.IGame
	nhl   repository.INHL
	cache repository.ICache
	clock clockwork.Clock
}

func NewRecapUsecase(games repository.IGame, nhlClient repository.INHL, c repository.ICache, clock clockwork.Clock) IRecapUsecase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &recapUsecase{games: games, nhl: nhlClient, cache: c, clock: clock}
}

func (u *recapUsecase) Get(ctx context.Context, gameID int64) (*dto.BoxscoreRecap, error) {
	game, err := u.games.GetByID(ctx, gameID)
	if err == nil {
		r := recapOf(game)
		return &r, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	box, raw, err := u.nhl.FetchBoxscore(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch boxscore %d: %w", gameID, err)
	}
	game = u.gameFromBoxscore(gameID, box)
	payload := game.Payload()
	payload.Boxscore = raw
	payload.TopPerformers = nhl.TopPerformers(box)

	if err := u.games.Create(ctx, game); err != nil && !errors.Is(err, model.ErrAlreadyExists) {
		return nil, err
	}
	invalidateGame(ctx, u.cache, gameID)
	logger.WithContext(ctx).WithField("gameId", gameID).Info("Recap stored from boxscore")

	r := nhl.Recap(box, gameID)
	return &r, nil
}

func (u *recapUsecase) gameFromBoxscore(gameID int64, box *dto.NHLBoxscore) *model.Game {
	now := u.clock.Now()
	homeScore, awayScore := box.HomeTeam.Score, box.AwayTeam.Score
	game := &model.Game{
		GameID:          gameID,
		Status:          model.GameStatus(box.GameState),
		HomeTeam:        box.HomeTeam.Abbrev,
		AwayTeam:        box.AwayTeam.Abbrev,
		HomeScore:       &homeScore,
		AwayScore:       &awayScore,
		Scorers:         nhl.Scorers(box),
		StatusUpdatedAt: &now,
	}
	switch box.GameState {
	case "FUT", "PRE", "":
		game.Status = model.GameStatusScheduled
	case "FINAL", "OFF":
		game.BasicStatsFetched = true
	}
	kickoff := box.StartTimeUTC
	if kickoff == "" {
		kickoff = box.GameDate
	}
	if t, err := dto.ParseNHLDate(kickoff); err == nil {
		game.GameDateUTC = t
	} else {
		game.GameDateUTC = now.UTC()
	}
	return game
}

func (u *recapUsecase) All(ctx context.Context) ([]dto.BoxscoreRecap, error) {
	games, err := u.games.ListWithStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BoxscoreRecap, 0, len(games))
	for i := range games {
		out = append(out, recapOf(&games[i]))
	}
	return out, nil
}

func recapOf(g *model.Game) dto.BoxscoreRecap {
	scorers := g.Scorers
	if scorers == nil {
		scorers = []string{}
	}
	return dto.BoxscoreRecap{
		GameID:    g.GameID,
		AwayTeam:  g.AwayTeam,
		HomeTeam:  g.HomeTeam,
		AwayScore: model.ScoreOf(g.AwayScore),
		HomeScore: model.ScoreOf(g.HomeScore),
		Scorers:   scorers,
	}
}
