package dto

import "time"

// HighlightSearchRequest describes one game for the highlight search.
type HighlightSearchRequest struct {
	AwayTeam   string    `json:"away_team"`
	HomeTeam   string    `json:"home_team"`
	GameDate   time.Time `json:"game_date"`
	GameNumber int       `json:"game_number,omitempty"`
	MaxResults int64     `json:"max_results,omitempty"`
}

// YouTubeVideo is one search hit reduced to the fields the pipeline stores.
type YouTubeVideo struct {
	YouTubeID    string     `json:"youtube_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ChannelName  string     `json:"channel_name"`
	ChannelID    string     `json:"channel_id,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	ViewCount    uint64     `json:"view_count,omitempty"`
}

// HighlightSearchResult holds the categorized picks for one game.
type HighlightSearchResult struct {
	NHLOfficial     *YouTubeVideo  `json:"nhl_official"`
	ProfessorHockey *YouTubeVideo  `json:"professor_hockey"`
	Other           []YouTubeVideo `json:"other"`
}

type GoalClipRequest struct {
	ScorerName string    `json:"scorer_name"`
	TeamName   string    `json:"team_name"`
	GameDate   time.Time `json:"game_date"`
	MaxResults int64     `json:"max_results,omitempty"`
}
