package dto

import (
	"time"

	"nhl-fan-insights/domain/model"
)

// RecapRequest is the game context handed to the recap generator.
type RecapRequest struct {
	GameID        int64                    `json:"game_id"`
	HomeTeam      string                   `json:"home_team"`
	AwayTeam      string                   `json:"away_team"`
	HomeScore     int                      `json:"home_score"`
	AwayScore     int                      `json:"away_score"`
	GameDate      time.Time                `json:"game_date"`
	Goals         []model.Goal             `json:"goals"`
	TopPerformers []model.Performer        `json:"top_performers"`
	Sentiment     string                   `json:"sentiment,omitempty"`
	Standings     *model.StandingsSnapshot `json:"standings,omitempty"`
	NextOpponent  string                   `json:"next_opponent,omitempty"`
	NextGameDate  *time.Time               `json:"next_game_date,omitempty"`
}

type RecapResult struct {
	SummaryLine       string  `json:"summary_line"`
	RecapText         string  `json:"recap_text"`
	NextGameStoryline *string `json:"next_game_storyline"`
}

// BoxscoreRecap is the compact boxscore view served by the recap endpoint.
type BoxscoreRecap struct {
	GameID    int64    `json:"game_id"`
	AwayTeam  string   `json:"away_team"`
	HomeTeam  string   `json:"home_team"`
	AwayScore int      `json:"away_score"`
	HomeScore int      `json:"home_score"`
	Scorers   []string `json:"scorers"`
}
