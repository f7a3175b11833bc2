package persistence

import (
	"context"
	"database/sql"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

type QuoteRepository struct {
	db *sql.DB
}

func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) ListByGame(ctx context.Context, gameID int64) ([]model.Quote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, game_id, text, speaker_name, speaker_role, speaker_image_url,
		source, source_url, created_at FROM quotes WHERE game_id = $1 ORDER BY id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	quotes := make([]model.Quote, 0)
	for rows.Next() {
		var q model.Quote
		if err := rows.Scan(&q.ID, &q.GameID, &q.Text, &q.SpeakerName, &q.SpeakerRole, &q.SpeakerImageURL,
			&q.Source, &q.SourceURL, &q.CreatedAt); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

type MilestoneRepository struct {
	db *sql.DB
}

func NewMilestoneRepository(db *sql.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) ListByGame(ctx context.Context, gameID int64) ([]model.Milestone, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, player_id, player_name, game_id, milestone_type, milestone_value,
		description, achieved, current_value, created_at FROM milestones WHERE game_id = $1 ORDER BY id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	milestones := make([]model.Milestone, 0)
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(&m.ID, &m.PlayerID, &m.PlayerName, &m.GameID, &m.MilestoneType, &m.MilestoneValue,
			&m.Description, &m.Achieved, &m.CurrentValue, &m.CreatedAt); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

var (
	_ repository.IQuote     = (*QuoteRepository)(nil)
	_ repository.IMilestone = (*MilestoneRepository)(nil)
)
