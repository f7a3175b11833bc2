package model

import (
	"bytes"

	"github.com/goccy/go-json"
)

const GamePayloadVersion = 2

// GamePayload is the versioned envelope stored in games.raw. Each pipeline stage owns one field.
type GamePayload struct {
	Version        int             `json:"version"`
	Boxscore       json.RawMessage `json:"boxscore,omitempty"`
	Goals          []Goal          `json:"goals,omitempty"`
	TopPerformers  []Performer     `json:"top_performers,omitempty"`
	RedditThreadID string          `json:"reddit_thread_id,omitempty"`
}

func NewGamePayload() *GamePayload {
	return &GamePayload{Version: GamePayloadVersion}
}

// Goal is one scoring play taken from the play-by-play feed.
type Goal struct {
	Period     int      `json:"period"`
	Time       string   `json:"time"`
	Scorer     string   `json:"scorer"`
	ScorerID   int64    `json:"scorer_id,omitempty"`
	Assists    []string `json:"assists"`
	Team       string   `json:"team"`
	Strength   string   `json:"strength"`
	IsEmptyNet bool     `json:"is_empty_net"`
}

// Performer is a ranked boxscore line used as recap context.
type Performer struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
	Points   int    `json:"points"`
	Saves    int    `json:"saves,omitempty"`
}

// DecodeGamePayload reads a stored envelope. Version 1 rows hold the bare boxscore object and
// are upgraded into the boxscore field.
func DecodeGamePayload(data []byte) (*GamePayload, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.Version >= GamePayloadVersion {
		var p GamePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	}

	var legacy map[string]json.RawMessage
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	p := NewGamePayload()
	if goals, ok := legacy["goals"]; ok {
		if err := json.Unmarshal(goals, &p.Goals); err != nil {
			return nil, err
		}
		delete(legacy, "goals")
	}
	box, err := json.Marshal(legacy)
	if err != nil {
		return nil, err
	}
	p.Boxscore = box
	return p, nil
}

// Encode serializes the envelope for storage. A nil envelope encodes as SQL NULL.
func (p *GamePayload) Encode() ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	p.Version = GamePayloadVersion
	return json.Marshal(p)
}
