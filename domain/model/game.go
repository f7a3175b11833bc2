package model

import "time"

// GameStatus is the lifecycle state of a game. Values are stored verbatim in games.status.
type GameStatus string

const (
	GameStatusScheduled GameStatus = "SCHEDULED"
	GameStatusLive      GameStatus = "LIVE"
	GameStatusFinal     GameStatus = "FINAL"
	GameStatusOff       GameStatus = "OFF"
	GameStatusComplete  GameStatus = "COMPLETE"
	GameStatusArchived  GameStatus = "ARCHIVED"
)

var gameStatusRank = map[GameStatus]int{
	GameStatusScheduled: 0,
	GameStatusLive:      1,
	GameStatusFinal:     2,
	GameStatusOff:       2,
	GameStatusComplete:  3,
	GameStatusArchived:  4,
}

// Rank orders statuses along the lifecycle. Unknown upstream codes rank with SCHEDULED.
func (s GameStatus) Rank() int {
	return gameStatusRank[s]
}

// CanAdvanceTo reports whether moving from s to next keeps the lifecycle monotonic.
func (s GameStatus) CanAdvanceTo(next GameStatus) bool {
	return next.Rank() >= s.Rank()
}

// IsFinished is true once the game has been played (FINAL or any later state).
func (s GameStatus) IsFinished() bool {
	return s.Rank() >= GameStatusFinal.Rank()
}

// CompletedStatuses are the statuses listed by the recent games endpoint.
var CompletedStatuses = []GameStatus{GameStatusFinal, GameStatusOff, GameStatusComplete, GameStatusArchived}

type Game struct {
	GameID            int64              `json:"game_id"`
	GameDateUTC       time.Time          `json:"game_date_utc"`
	Status            GameStatus         `json:"status"`
	HomeTeam          string             `json:"home_team"`
	AwayTeam          string             `json:"away_team"`
	HomeScore         *int               `json:"home_score"`
	AwayScore         *int               `json:"away_score"`
	Scorers           []string           `json:"scorers"`
	Raw               *GamePayload       `json:"raw,omitempty"`
	RecapText         *string            `json:"recap_text"`
	SummaryLine       *string            `json:"summary_line"`
	NextGameStoryline *string            `json:"next_game_storyline"`
	RecapGenerated    bool               `json:"recap_generated"`
	BasicStatsFetched bool               `json:"basic_stats_fetched"`
	VideosFetched     bool               `json:"videos_fetched"`
	RedditFetched     bool               `json:"reddit_fetched"`
	QuotesFetched     bool               `json:"quotes_fetched"`
	StatusUpdatedAt   *time.Time         `json:"status_updated_at"`
	CompletedAt       *time.Time         `json:"completed_at"`
	ArchivedAt        *time.Time         `json:"archived_at"`
	StandingsSnapshot *StandingsSnapshot `json:"standings_snapshot,omitempty"`
	NextOpponent      *string            `json:"next_opponent"`
	NextGameDate      *time.Time         `json:"next_game_date"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// SetStatus advances the status and stamps status_updated_at. A backwards move is ignored and
// reported as false.
func (g *Game) SetStatus(next GameStatus, now time.Time) bool {
	if !g.Status.CanAdvanceTo(next) {
		return false
	}
	g.Status = next
	g.StatusUpdatedAt = &now
	switch next {
	case GameStatusComplete:
		g.CompletedAt = &now
	case GameStatusArchived:
		g.ArchivedAt = &now
	}
	return true
}

// Payload returns the raw envelope, creating an empty one on first use.
func (g *Game) Payload() *GamePayload {
	if g.Raw == nil {
		g.Raw = NewGamePayload()
	}
	return g.Raw
}

// Involves reports whether team played in the game.
func (g *Game) Involves(team string) bool {
	return g.HomeTeam == team || g.AwayTeam == team
}

// ScoreOf returns 0 for a missing score.
func ScoreOf(score *int) int {
	if score == nil {
		return 0
	}
	return *score
}

// GameUpdate carries the optional fields of a partial update.
type GameUpdate struct {
	Status            *GameStatus `json:"status"`
	HomeScore         *int        `json:"home_score"`
	AwayScore         *int        `json:"away_score"`
	Scorers           []string    `json:"scorers"`
	RecapText         *string     `json:"recap_text"`
	SummaryLine       *string     `json:"summary_line"`
	NextGameStoryline *string     `json:"next_game_storyline"`
	VideosFetched     *bool       `json:"videos_fetched"`
	RecapGenerated    *bool       `json:"recap_generated"`
}

// Apply copies the set fields of u onto g.
func (u GameUpdate) Apply(g *Game, now time.Time) {
	if u.Status != nil {
		g.Status = *u.Status
	}
	if u.HomeScore != nil {
		g.HomeScore = u.HomeScore
	}
	if u.AwayScore != nil {
		g.AwayScore = u.AwayScore
	}
	if u.Scorers != nil {
		g.Scorers = u.Scorers
	}
	if u.RecapText != nil {
		g.RecapText = u.RecapText
	}
	if u.SummaryLine != nil {
		g.SummaryLine = u.SummaryLine
	}
	if u.NextGameStoryline != nil {
		g.NextGameStoryline = u.NextGameStoryline
	}
	if u.VideosFetched != nil {
		g.VideosFetched = *u.VideosFetched
	}
	if u.RecapGenerated != nil {
		g.RecapGenerated = *u.RecapGenerated
	}
	g.StatusUpdatedAt = &now
}

// GameStatusEvent is emitted on every status transition.
type GameStatusEvent struct {
	GameID int64      `json:"game_id"`
	From   GameStatus `json:"from"`
	To     GameStatus `json:"to"`
	Stage  string     `json:"stage,omitempty"`
	At     time.Time  `json:"at"`
}
