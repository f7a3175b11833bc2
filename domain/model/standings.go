package model

import "time"

type StandingsRow struct {
	TeamAbbrev       string `json:"team_abbrev"`
	TeamName         string `json:"team_name"`
	DivisionSequence int    `json:"division_sequence"`
	GamesPlayed      int    `json:"games_played"`
	Points           int    `json:"points"`
	Wins             int    `json:"wins"`
	Losses           int    `json:"losses"`
	OTLosses         int    `json:"ot_losses"`
}

// StandingsSnapshot is the division table captured by the daily standings job.
type StandingsSnapshot struct {
	Division  string         `json:"division"`
	Team      *StandingsRow  `json:"team"`
	Rows      []StandingsRow `json:"rows"`
	FetchedAt time.Time      `json:"fetched_at"`
}

type Prospect struct {
	Name           string `json:"name"`
	Position       string `json:"position"`
	DraftYear      *int   `json:"draft_year,omitempty"`
	EliteProspects string `json:"elite_prospects_url"`
	Description    string `json:"description"`
}
