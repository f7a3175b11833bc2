package dto

import (
	"strings"
	"time"
)

// LocalizedName is the {"default": "..."} wrapper the NHL API uses for display strings.
type LocalizedName struct {
	Default string `json:"default"`
}

type NHLScheduleTeam struct {
	ID     int    `json:"id"`
	Abbrev string `json:"abbrev"`
	Score  *int   `json:"score,omitempty"`
}

type NHLScheduleGame struct {
	ID           int64           `json:"id"`
	Season       int             `json:"season"`
	GameType     int             `json:"gameType"`
	GameDate     string          `json:"gameDate"`
	StartTimeUTC string          `json:"startTimeUTC"`
	GameState    string          `json:"gameState"`
	AwayTeam     NHLScheduleTeam `json:"awayTeam"`
	HomeTeam     NHLScheduleTeam `json:"homeTeam"`
}

// Kickoff resolves the game start. startTimeUTC is preferred; gameDate alone is a calendar day.
func (g NHLScheduleGame) Kickoff() (time.Time, error) {
	if g.StartTimeUTC != "" {
		if t, err := time.Parse(time.RFC3339, g.StartTimeUTC); err == nil {
			return t.UTC(), nil
		}
	}
	return ParseNHLDate(g.GameDate)
}

// ParseNHLDate accepts the RFC3339 and plain date forms the API emits.
func ParseNHLDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}

type NHLSchedule struct {
	Games []NHLScheduleGame `json:"games"`
}

type NHLBoxscoreTeam struct {
	ID         int           `json:"id"`
	Abbrev     string        `json:"abbrev"`
	Score      int           `json:"score"`
	SOG        int           `json:"sog"`
	CommonName LocalizedName `json:"commonName"`
}

type NHLSkaterLine struct {
	PlayerID      int64         `json:"playerId"`
	SweaterNumber int           `json:"sweaterNumber"`
	Name          LocalizedName `json:"name"`
	Position      string        `json:"position"`
	Goals         int           `json:"goals"`
	Assists       int           `json:"assists"`
	Points        int           `json:"points"`
	Saves         int           `json:"saves"`
}

type NHLTeamPlayerStats struct {
	Forwards []NHLSkaterLine `json:"forwards"`
	Defense  []NHLSkaterLine `json:"defense"`
	Goalies  []NHLSkaterLine `json:"goalies"`
}

type NHLPlayerByGameStats struct {
	AwayTeam NHLTeamPlayerStats `json:"awayTeam"`
	HomeTeam NHLTeamPlayerStats `json:"homeTeam"`
}

type NHLBoxscore struct {
	ID                int64                `json:"id"`
	GameDate          string               `json:"gameDate"`
	StartTimeUTC      string               `json:"startTimeUTC"`
	GameState         string               `json:"gameState"`
	AwayTeam          NHLBoxscoreTeam      `json:"awayTeam"`
	HomeTeam          NHLBoxscoreTeam      `json:"homeTeam"`
	PlayerByGameStats NHLPlayerByGameStats `json:"playerByGameStats"`
}

type NHLPeriodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

type NHLPlayDetails struct {
	ScoringPlayerID   int64  `json:"scoringPlayerId"`
	ScoringPlayerName string `json:"scoringPlayerName"`
	Assist1PlayerName string `json:"assist1PlayerName"`
	Assist2PlayerName string `json:"assist2PlayerName"`
	Strength          string `json:"strength"`
	EmptyNet          bool   `json:"emptyNet"`
}

type NHLPlay struct {
	EventID          int64               `json:"eventId"`
	TypeDescKey      string              `json:"typeDescKey"`
	PeriodDescriptor NHLPeriodDescriptor `json:"periodDescriptor"`
	TimeInPeriod     string              `json:"timeInPeriod"`
	TeamAbbrev       string              `json:"teamAbbrev"`
	Details          NHLPlayDetails      `json:"details"`
}

type NHLPlayByPlay struct {
	ID    int64     `json:"id"`
	Plays []NHLPlay `json:"plays"`
}

type NHLRosterPlayer struct {
	ID             int64         `json:"id"`
	FirstName      LocalizedName `json:"firstName"`
	LastName       LocalizedName `json:"lastName"`
	PositionCode   string        `json:"positionCode"`
	SweaterNumber  *int          `json:"sweaterNumber"`
	Headshot       string        `json:"headshot"`
	BirthDate      string        `json:"birthDate"`
	ShootsCatches  string        `json:"shootsCatches"`
	HeightInInches int           `json:"heightInInches"`
}

func (p NHLRosterPlayer) FullName() string {
	return strings.TrimSpace(p.FirstName.Default + " " + p.LastName.Default)
}

type NHLRoster struct {
	Forwards   []NHLRosterPlayer `json:"forwards"`
	Defensemen []NHLRosterPlayer `json:"defensemen"`
	Goalies    []NHLRosterPlayer `json:"goalies"`
}

// Players flattens the three roster groups.
func (r NHLRoster) Players() []NHLRosterPlayer {
	out := make([]NHLRosterPlayer, 0, len(r.Forwards)+len(r.Defensemen)+len(r.Goalies))
	out = append(out, r.Forwards...)
	out = append(out, r.Defensemen...)
	return append(out, r.Goalies...)
}

type NHLStandingsRow struct {
	DivisionName     string        `json:"divisionName"`
	DivisionSequence int           `json:"divisionSequence"`
	TeamAbbrev       LocalizedName `json:"teamAbbrev"`
	TeamName         LocalizedName `json:"teamName"`
	GamesPlayed      int           `json:"gamesPlayed"`
	Points           int           `json:"points"`
	Wins             int           `json:"wins"`
	Losses           int           `json:"losses"`
	OTLosses         int           `json:"otLosses"`
}

type NHLStandings struct {
	Standings []NHLStandingsRow `json:"standings"`
}
