package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/cache"
	"nhl-fan-insights/infrastructure/logger"
)

const standingsTTL = 24 * time.Hour

type IStandingsUsecase interface {
	// Refresh fetches the league table and stores the configured division.
	Refresh(ctx context.Context) (*model.StandingsSnapshot, error)
	// Snapshot returns the stored division table, refreshing when none is cached.
	Snapshot(ctx context.Context) (*model.StandingsSnapshot, error)
}

type standingsUsecase struct {
	nhl      repository.INHL
	cache    repository.ICache
	clock    clockwork.Clock
	teamID   string
	division string

	mu     sync.RWMutex
	latest *model.StandingsSnapshot
}

func NewStandingsUsecase(nhl repository.INHL, c repository.ICache, clock clockwork.Clock, teamID, division string) IStandingsUsecase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &standingsUsecase{nhl: nhl, cache: c, clock: clock, teamID: teamID, division: division}
}

func (u *standingsUsecase) Refresh(ctx context.Context) (*model.StandingsSnapshot, error) {
	standings, err := u.nhl.FetchStandings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch standings: %w", err)
	}

	snap := &model.StandingsSnapshot{Division: u.division, Rows: []model.StandingsRow{}, FetchedAt: u.clock.Now().UTC()}
	for _, r := range standings.Standings {
		if r.DivisionName != u.division {
			continue
		}
		snap.Rows = append(snap.Rows, model.StandingsRow{
			TeamAbbrev:       r.TeamAbbrev.Default,
			TeamName:         r.TeamName.Default,
			DivisionSequence: r.DivisionSequence,
			GamesPlayed:      r.GamesPlayed,
			Points:           r.Points,
			Wins:             r.Wins,
			Losses:           r.Losses,
			OTLosses:         r.OTLosses,
		})
	}
	if len(snap.Rows) == 0 {
		return nil, fmt.Errorf("division %q not in standings: %w", u.division, model.ErrNotFound)
	}
	sort.SliceStable(snap.Rows, func(i, j int) bool { return snap.Rows[i].DivisionSequence < snap.Rows[j].DivisionSequence })
	for i := range snap.Rows {
		if snap.Rows[i].TeamAbbrev == u.teamID {
			row := snap.Rows[i]
			snap.Team = &row
			break
		}
	}

	if snap.Team != nil {
		logger.GetLogger().
			WithField("division", u.division).
			WithField("position", snap.Team.DivisionSequence).
			WithField("points", snap.Team.Points).
			WithField("record", fmt.Sprintf("%d-%d-%d", snap.Team.Wins, snap.Team.Losses, snap.Team.OTLosses)).
			Info("Standings updated")
	} else {
		logger.GetLogger().WithField("division", u.division).WithField("team", u.teamID).Warn("Team missing from division standings")
	}

	u.mu.Lock()
	u.latest = snap
	u.mu.Unlock()
	if u.cache != nil {
		u.cache.Set(ctx, cache.StandingsKey(u.division), snap, standingsTTL)
	}
	return snap, nil
}

func (u *standingsUsecase) Snapshot(ctx context.Context) (*model.StandingsSnapshot, error) {
	if u.cache != nil {
		var snap model.StandingsSnapshot
		if u.cache.Get(ctx, cache.StandingsKey(u.division), &snap) {
			return &snap, nil
		}
	}
	u.mu.RLock()
	latest := u.latest
	u.mu.RUnlock()
	if latest != nil && u.clock.Since(latest.FetchedAt) < standingsTTL {
		return latest, nil
	}
	return u.Refresh(ctx)
}
