package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/cache"
	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/infrastructure/metrics"
)

const playerStatsTTL = time.Hour

type IRosterUsecase interface {
	// Sync reconciles open stints with the upstream roster in a single transaction.
	Sync(ctx context.Context) (*dto.RosterSyncResult, error)
	CurrentRoster(ctx context.Context) ([]model.RosterEntry, error)
	PlayerHistory(ctx context.Context, playerID int64) ([]model.PlayerTeamHistory, error)
	PlayerStats(ctx context.Context, playerID int64) (json.RawMessage, error)
}

type rosterUsecase struct {
	roster   repository.IRoster
	nhl      repository.INHL
	cache    repository.ICache
	clock    clockwork.Clock
	teamID   string
	teamName string
	loc      *time.Location
}

func NewRosterUsecase(roster repository.IRoster, nhl repository.INHL, c repository.ICache, clock clockwork.Clock, teamID, teamName string, loc *time.Location) IRosterUsecase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &rosterUsecase{roster: roster, nhl: nhl, cache: c, clock: clock, teamID: teamID, teamName: teamName, loc: loc}
}

func (u *rosterUsecase) today() time.Time {
	local := u.clock.Now().In(u.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (u *rosterUsecase) Sync(ctx context.Context) (*dto.RosterSyncResult, error) {
	upstream, err := u.nhl.FetchRoster(ctx, u.teamID)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	players := upstream.Players()
	today := u.today()

	var result *dto.RosterSyncResult
	err = u.roster.WithinTx(ctx, func(tx repository.IRosterTx) error {
		res := &dto.RosterSyncResult{TeamID: u.teamID, Removed: []int64{}, Added: []int64{}, Updated: []int64{}}

		stints, err := tx.OpenStints(ctx, u.teamID)
		if err != nil {
			return fmt.Errorf("load open stints: %w", err)
		}
		local := make(map[int64]bool, len(stints))
		for _, s := range stints {
			local[s.PlayerID] = true
		}
		external := make(map[int64]bool, len(players))
		for _, p := range players {
			external[p.ID] = true
		}

		for id := range local {
			if !external[id] {
				res.Removed = append(res.Removed, id)
			}
		}
		sort.Slice(res.Removed, func(i, j int) bool { return res.Removed[i] < res.Removed[j] })
		for _, id := range res.Removed {
			if err := tx.CloseStint(ctx, id, u.teamID, today); err != nil {
				return fmt.Errorf("close stint %d: %w", id, err)
			}
		}

		for _, p := range players {
			if local[p.ID] {
				changed, err := u.refreshPlayer(ctx, tx, p)
				if err != nil {
					return err
				}
				if changed {
					res.JerseyChanges++
				}
				res.Updated = append(res.Updated, p.ID)
				continue
			}
			if err := tx.UpsertPlayer(ctx, playerFromRoster(p)); err != nil {
				return fmt.Errorf("upsert player %d: %w", p.ID, err)
			}
			stint := &model.PlayerTeamHistory{PlayerID: p.ID, TeamID: u.teamID, TeamName: u.teamName, StartDate: today}
			if err := tx.OpenStint(ctx, stint); err != nil {
				return fmt.Errorf("open stint %d: %w", p.ID, err)
			}
			res.Added = append(res.Added, p.ID)
			// guards a player listed in two position groups
			local[p.ID] = true
		}

		res.Changes = len(res.Removed) + len(res.Added) + res.JerseyChanges
		result = res
		return nil
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Roster sync rolled back")
		return nil, err
	}

	metrics.RosterChanges.Add(float64(result.Changes))
	logger.GetLogger().
		WithField("team", u.teamID).
		WithField("removed", len(result.Removed)).
		WithField("added", len(result.Added)).
		WithField("updated", len(result.Updated)).
		WithField("changes", result.Changes).
		Info("Roster sync finished")
	return result, nil
}

// refreshPlayer overwrites the mutable attributes and reports a jersey number change.
func (u *rosterUsecase) refreshPlayer(ctx context.Context, tx repository.IRosterTx, p dto.NHLRosterPlayer) (bool, error) {
	fresh := playerFromRoster(p)
	existing, err := tx.GetPlayer(ctx, p.ID)
	if errors.Is(err, model.ErrNotFound) {
		return false, tx.UpsertPlayer(ctx, fresh)
	}
	if err != nil {
		return false, fmt.Errorf("load player %d: %w", p.ID, err)
	}

	changed := !sameJersey(existing.JerseyNumber, fresh.JerseyNumber)
	if changed {
		logger.GetLogger().
			WithField("playerId", p.ID).
			WithField("from", jerseyString(existing.JerseyNumber)).
			WithField("to", jerseyString(fresh.JerseyNumber)).
			Info("Jersey number changed")
	}
	existing.JerseyNumber = fresh.JerseyNumber
	existing.Position = fresh.Position
	if fresh.HeadshotURL != nil {
		existing.HeadshotURL = fresh.HeadshotURL
	}
	if err := tx.UpsertPlayer(ctx, existing); err != nil {
		return false, fmt.Errorf("update player %d: %w", p.ID, err)
	}
	return changed, nil
}

func playerFromRoster(p dto.NHLRosterPlayer) *model.PlayerInfo {
	info := &model.PlayerInfo{
		NHLPlayerID:  p.ID,
		Name:         p.FullName(),
		JerseyNumber: p.SweaterNumber,
	}
	profile := model.NHLProfileURL(p.ID)
	info.NHLProfileURL = &profile
	if p.PositionCode != "" {
		pos := p.PositionCode
		info.Position = &pos
	}
	if p.Headshot != "" {
		headshot := p.Headshot
		info.HeadshotURL = &headshot
	}
	if p.BirthDate != "" {
		if t, err := time.Parse("2006-01-02", p.BirthDate); err == nil {
			info.Birthdate = &t
		}
	}
	return info
}

func sameJersey(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func jerseyString(n *int) string {
	if n == nil {
		return "none"
	}
	return fmt.Sprintf("#%d", *n)
}

func (u *rosterUsecase) CurrentRoster(ctx context.Context) ([]model.RosterEntry, error) {
	return u.roster.CurrentRoster(ctx, u.teamID)
}

func (u *rosterUsecase) PlayerHistory(ctx context.Context, playerID int64) ([]model.PlayerTeamHistory, error) {
	history, err := u.roster.PlayerHistory(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		if _, err := u.roster.GetPlayer(ctx, playerID); err != nil {
			return nil, err
		}
	}
	return history, nil
}

func (u *rosterUsecase) PlayerStats(ctx context.Context, playerID int64) (json.RawMessage, error) {
	return cache.Remember(ctx, u.cache, cache.PlayerStatsKey(playerID), playerStatsTTL, func(ctx context.Context) (json.RawMessage, error) {
		return u.nhl.FetchPlayerLanding(ctx, playerID)
	})
}
