package model

import "time"

type Quote struct {
	ID              int64     `json:"id"`
	GameID          int64     `json:"game_id"`
	Text            string    `json:"text"`
	SpeakerName     string    `json:"speaker_name"`
	SpeakerRole     *string   `json:"speaker_role"`
	SpeakerImageURL *string   `json:"speaker_image_url"`
	Source          *string   `json:"source"`
	SourceURL       *string   `json:"source_url"`
	CreatedAt       time.Time `json:"created_at"`
}

type Milestone struct {
	ID             int64     `json:"id"`
	PlayerID       int64     `json:"player_id"`
	PlayerName     string    `json:"player_name"`
	GameID         *int64    `json:"game_id"`
	MilestoneType  string    `json:"milestone_type"`
	MilestoneValue int       `json:"milestone_value"`
	Description    string    `json:"description"`
	Achieved       bool      `json:"achieved"`
	CurrentValue   *int      `json:"current_value"`
	CreatedAt      time.Time `json:"created_at"`
}
