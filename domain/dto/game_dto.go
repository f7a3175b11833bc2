package dto

import (
	"time"

	"nhl-fan-insights/domain/model"
)

type GameSummary struct {
	GameID    int64            `json:"game_id"`
	GameDate  time.Time        `json:"game_date"`
	AwayTeam  string           `json:"away_team"`
	HomeTeam  string           `json:"home_team"`
	AwayScore *int             `json:"away_score"`
	HomeScore *int             `json:"home_score"`
	Status    model.GameStatus `json:"status"`
	HasVideos bool             `json:"has_videos"`
}

type VideoSummary struct {
	ID           int64           `json:"id"`
	YouTubeID    string          `json:"youtube_id"`
	Title        string          `json:"title"`
	VideoType    model.VideoType `json:"video_type"`
	ChannelName  *string         `json:"channel_name"`
	ThumbnailURL *string         `json:"thumbnail_url"`
}

type GameDetail struct {
	GameID                 int64                    `json:"game_id"`
	GameDateUTC            time.Time                `json:"game_date_utc"`
	Status                 model.GameStatus         `json:"status"`
	AwayTeam               string                   `json:"away_team"`
	HomeTeam               string                   `json:"home_team"`
	AwayScore              *int                     `json:"away_score"`
	HomeScore              *int                     `json:"home_score"`
	Scorers                []string                 `json:"scorers"`
	RecapText              *string                  `json:"recap_text"`
	SummaryLine            *string                  `json:"summary_line"`
	NextGameStoryline      *string                  `json:"next_game_storyline"`
	NHLVideoID             *string                  `json:"nhl_video_id"`
	ProfessorHockeyVideoID *string                  `json:"professor_hockey_video_id"`
	Videos                 []VideoSummary           `json:"videos"`
	Goals                  []model.Goal             `json:"goals"`
	Quotes                 []model.Quote            `json:"quotes"`
	Milestones             []model.Milestone        `json:"milestones"`
	StandingsSnapshot      *model.StandingsSnapshot `json:"standings_snapshot,omitempty"`
	NextOpponent           *string                  `json:"next_opponent"`
	NextGameDate           *time.Time               `json:"next_game_date"`
}

type CreateGameRequest struct {
	GameID      int64            `json:"game_id" binding:"required"`
	GameDateUTC time.Time        `json:"game_date_utc" binding:"required"`
	Status      model.GameStatus `json:"status"`
	HomeTeam    string           `json:"home_team" binding:"required"`
	AwayTeam    string           `json:"away_team" binding:"required"`
	HomeScore   *int             `json:"home_score"`
	AwayScore   *int             `json:"away_score"`
}

type StageRunResult struct {
	GameID int64  `json:"game_id"`
	Stage  string `json:"stage"`
	Error  string `json:"error,omitempty"`
}

type RosterSyncResult struct {
	TeamID        string  `json:"team_id"`
	Removed       []int64 `json:"removed"`
	Added         []int64 `json:"added"`
	Updated       []int64 `json:"updated"`
	JerseyChanges int     `json:"jersey_changes"`
	Changes       int     `json:"changes"`
}
