package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhl-fan-insights/domain/model"
)

func TestVideoRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (game_id, youtube_id) DO NOTHING RETURNING id, created_at`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (game_id, youtube_id) DO NOTHING RETURNING id, created_at`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))

	repo := NewVideoRepository(db)
	v := &model.Video{GameID: 2024020500, YouTubeID: "abc123", Title: "LAK @ SJS Highlights", VideoType: model.VideoTypeNHLOfficial}

	created, err := repo.Create(context.Background(), v)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(11), v.ID)

	created, err = repo.Create(context.Background(), &model.Video{GameID: 2024020500, YouTubeID: "abc123", VideoType: model.VideoTypeNHLOfficial})
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM videos WHERE game_id = $1 AND youtube_id = $2)`)).
		WithArgs(int64(5), "xyz").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewVideoRepository(db).Exists(context.Background(), 5, "xyz")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_ListByGame(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM videos WHERE game_id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "youtube_id", "title", "channel_name", "thumbnail_url",
			"video_type", "goal_time", "scorer_name", "published_at", "created_at"}).
			AddRow(int64(1), int64(5), "a", "Recap", "NHL", nil, "nhl_official", nil, nil, now, now).
			AddRow(int64(2), int64(5), "b", "Goal", nil, nil, "goal_highlight", "12:01", "Celebrini", nil, now))

	videos, err := NewVideoRepository(db).ListByGame(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, model.VideoTypeGoalHighlight, videos[1].VideoType)
	require.NotNil(t, videos[1].ScorerName)
	assert.Equal(t, "Celebrini", *videos[1].ScorerName)
	assert.Nil(t, videos[1].ChannelName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_GameIDsWithVideos(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT game_id FROM videos WHERE game_id = ANY($1)`)).
		WillReturnRows(sqlmock.NewRows([]string{"game_id"}).AddRow(int64(1)))

	repo := NewVideoRepository(db)
	got, err := repo.GameIDsWithVideos(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.True(t, got[1])
	assert.False(t, got[2])

	empty, err := repo.GameIDsWithVideos(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	require.NoError(t, mock.ExpectationsWereMet())
}
