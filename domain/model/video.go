package model

import "time"

type VideoType string

const (
	VideoTypeNHLOfficial     VideoType = "nhl_official"
	VideoTypeProfessorHockey VideoType = "professor_hockey"
	VideoTypeGoalHighlight   VideoType = "goal_highlight"
	VideoTypeOther           VideoType = "other"
)

type Video struct {
	ID           int64      `json:"id"`
	GameID       int64      `json:"game_id"`
	YouTubeID    string     `json:"youtube_id"`
	Title        string     `json:"title"`
	ChannelName  *string    `json:"channel_name"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	VideoType    VideoType  `json:"video_type"`
	GoalTime     *string    `json:"goal_time"`
	ScorerName   *string    `json:"scorer_name"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
}
