package model

import (
	"fmt"
	"time"
)

type PlayerInfo struct {
	NHLPlayerID   int64      `json:"nhl_player_id"`
	Name          string     `json:"name"`
	Position      *string    `json:"position"`
	JerseyNumber  *int       `json:"jersey_number"`
	Birthdate     *time.Time `json:"birthdate"`
	NHLProfileURL *string    `json:"nhl_profile_url"`
	HeadshotURL   *string    `json:"headshot_url"`
}

// PlayerTeamHistory is one stint of a player with a team. EndDate nil marks the open stint.
type PlayerTeamHistory struct {
	ID        int64      `json:"id"`
	PlayerID  int64      `json:"player_id"`
	TeamID    string     `json:"team_id"`
	TeamName  string     `json:"team_name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func (h PlayerTeamHistory) IsCurrent() bool { return h.EndDate == nil }

// RosterEntry joins a player with the open stint that places them on the roster.
type RosterEntry struct {
	NHLPlayerID   int64     `json:"nhl_player_id"`
	Name          string    `json:"name"`
	Position      *string   `json:"position"`
	JerseyNumber  *int      `json:"jersey_number"`
	HeadshotURL   *string   `json:"headshot_url"`
	NHLProfileURL *string   `json:"nhl_profile_url"`
	JoinedTeam    time.Time `json:"joined_team"`
}

func NHLProfileURL(playerID int64) string {
	return fmt.Sprintf("https://www.nhl.com/player/%d", playerID)
}
