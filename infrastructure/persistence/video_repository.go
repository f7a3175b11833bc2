package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Exists(ctx context.Context, gameID int64, youtubeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM videos WHERE game_id = $1 AND youtube_id = $2)`,
		gameID, youtubeID).Scan(&exists)
	return exists, err
}

// Create inserts the video unless (game_id, youtube_id) is already stored.
func (r *VideoRepository) Create(ctx context.Context, v *model.Video) (bool, error) {
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, `INSERT INTO videos
		(game_id, youtube_id, title, channel_name, thumbnail_url, video_type, goal_time, scorer_name, published_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (game_id, youtube_id) DO NOTHING
		RETURNING id, created_at`,
		v.GameID, v.YouTubeID, v.Title, v.ChannelName, v.ThumbnailURL, string(v.VideoType), v.GoalTime,
		v.ScorerName, v.PublishedAt, now).Scan(&v.ID, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *VideoRepository) ListByGame(ctx context.Context, gameID int64) ([]model.Video, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, game_id, youtube_id, title, channel_name, thumbnail_url,
		video_type, goal_time, scorer_name, published_at, created_at
		FROM videos WHERE game_id = $1 ORDER BY video_type, id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	videos := make([]model.Video, 0)
	for rows.Next() {
		var (
			v         model.Video
			videoType string
		)
		if err := rows.Scan(&v.ID, &v.GameID, &v.YouTubeID, &v.Title, &v.ChannelName, &v.ThumbnailURL,
			&videoType, &v.GoalTime, &v.ScorerName, &v.PublishedAt, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.VideoType = model.VideoType(videoType)
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) GameIDsWithVideos(ctx context.Context, gameIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(gameIDs))
	if len(gameIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT game_id FROM videos WHERE game_id = ANY($1)`, pq.Array(gameIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

var _ repository.IVideo = (*VideoRepository)(nil)
