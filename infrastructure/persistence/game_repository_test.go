package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nhl-fan-insights/domain/model"
)

var gameColumnNames = []string{"game_id", "game_date_utc", "status", "home_team", "away_team", "home_score",
	"away_score", "scorers", "raw", "recap_text", "summary_line", "next_game_storyline", "recap_generated",
	"basic_stats_fetched", "videos_fetched", "reddit_fetched", "quotes_fetched", "status_updated_at",
	"completed_at", "archived_at", "standings_snapshot", "next_opponent", "next_game_date", "created_at", "updated_at"}

func gameRows(kickoff time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(gameColumnNames).AddRow(
		int64(2024020500), kickoff, "FINAL", "SJS", "LAK", int64(4), int64(2),
		[]byte(`["Celebrini","Smith"]`), []byte(`{"version":2,"boxscore":{"id":2024020500},"goals":[],"top_performers":[]}`),
		nil, nil, nil, false, true, false, false, false, kickoff, nil, nil,
		[]byte(`{"division":"Pacific","team":null,"rows":[],"fetched_at":"2025-01-15T13:00:00Z"}`),
		"VAN", nil, kickoff, kickoff)
}

func TestGameRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	kickoff := time.Date(2025, 1, 15, 3, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM games WHERE game_id = $1`)).
		WithArgs(int64(2024020500)).
		WillReturnRows(gameRows(kickoff))

	repo := NewGameRepository(db)
	g, err := repo.GetByID(context.Background(), 2024020500)
	require.NoError(t, err)

	assert.Equal(t, model.GameStatusFinal, g.Status)
	assert.Equal(t, []string{"Celebrini", "Smith"}, g.Scorers)
	assert.Equal(t, 4, model.ScoreOf(g.HomeScore))
	require.NotNil(t, g.Raw)
	assert.Equal(t, model.GamePayloadVersion, g.Raw.Version)
	require.NotNil(t, g.StandingsSnapshot)
	assert.Equal(t, "Pacific", g.StandingsSnapshot.Division)
	require.NotNil(t, g.NextOpponent)
	assert.Equal(t, "VAN", *g.NextOpponent)
	assert.Nil(t, g.RecapText)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM games WHERE game_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(gameColumnNames))

	_, err = NewGameRepository(db).GetByID(context.Background(), 1)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_Create(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "inserted", affected: 1},
		{name: "duplicate id", affected: 0, wantErr: model.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO games`)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			g := &model.Game{
				GameID:      2024020500,
				GameDateUTC: time.Date(2025, 1, 15, 3, 30, 0, 0, time.UTC),
				Status:      model.GameStatusScheduled,
				HomeTeam:    "SJS",
				AwayTeam:    "LAK",
			}
			err = NewGameRepository(db).Create(context.Background(), g)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.False(t, g.CreatedAt.IsZero())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGameRepository_SaveMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE games SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewGameRepository(db).Save(context.Background(), &model.Game{GameID: 9, Raw: model.NewGamePayload()})
	assert.True(t, errors.Is(err, model.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM games WHERE game_id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM games WHERE game_id = $1`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewGameRepository(db)
	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.True(t, errors.Is(repo.Delete(context.Background(), 8), model.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_ListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	kickoff := time.Date(2025, 1, 15, 3, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = ANY($1) AND ($2 = '' OR home_team = $2 OR away_team = $2) ORDER BY game_date_utc DESC LIMIT $3`)).
		WithArgs(sqlmock.AnyArg(), "SJS", 10).
		WillReturnRows(gameRows(kickoff))

	games, err := NewGameRepository(db).ListRecent(context.Background(), 10, "SJS", model.CompletedStatuses)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, int64(2024020500), games[0].GameID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_CountTeamGamesThrough(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	kickoff := time.Date(2025, 1, 15, 3, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`(game_date_utc < $2 OR (game_date_utc = $2 AND game_id <= $3))`)).
		WithArgs("SJS", kickoff, int64(2024020500)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(46))

	n, err := NewGameRepository(db).CountTeamGamesThrough(context.Background(), "SJS", kickoff, 2024020500)
	require.NoError(t, err)
	assert.Equal(t, 46, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_NextScheduledNone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = $1 AND (home_team = $2 OR away_team = $2) AND game_date_utc > $3`)).
		WillReturnRows(sqlmock.NewRows(gameColumnNames))

	g, err := NewGameRepository(db).NextScheduled(context.Background(), "SJS", time.Now())
	require.NoError(t, err)
	assert.Nil(t, g)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepository_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(*) FILTER (WHERE videos_fetched = true)`)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed", "with_videos", "pending"}).AddRow(82, 40, 38, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM videos`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))
	mock.ExpectQuery(regexp.QuoteMeta(`pg_database_size(current_database())`)).
		WillReturnRows(sqlmock.NewRows([]string{"size"}).AddRow(12.3456))

	stats, err := NewGameRepository(db).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(82), stats.Games.Total)
	assert.Equal(t, int64(2), stats.Games.PendingVideos)
	assert.Equal(t, int64(120), stats.VideosTotal)
	assert.Equal(t, 12.35, stats.DatabaseSizeMB)
	require.NoError(t, mock.ExpectationsWereMet())
}
