package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

const gameColumns = `game_id, game_date_utc, status, home_team, away_team, home_score, away_score, scorers, raw,
	recap_text, summary_line, next_game_storyline, recap_generated, basic_stats_fetched, videos_fetched,
	reddit_fetched, quotes_fetched, status_updated_at, completed_at, archived_at, standings_snapshot,
	next_opponent, next_game_date, created_at, updated_at`

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*model.Game, error) {
	var (
		g                          model.Game
		status                     string
		scorers, raw, standingsRaw []byte
	)
	err := row.Scan(&g.GameID, &g.GameDateUTC, &status, &g.HomeTeam, &g.AwayTeam, &g.HomeScore, &g.AwayScore,
		&scorers, &raw, &g.RecapText, &g.SummaryLine, &g.NextGameStoryline, &g.RecapGenerated,
		&g.BasicStatsFetched, &g.VideosFetched, &g.RedditFetched, &g.QuotesFetched, &g.StatusUpdatedAt,
		&g.CompletedAt, &g.ArchivedAt, &standingsRaw, &g.NextOpponent, &g.NextGameDate, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.Status = model.GameStatus(status)
	if err := decodeJSONColumn(scorers, &g.Scorers); err != nil {
		return nil, fmt.Errorf("decode scorers for game %d: %w", g.GameID, err)
	}
	if g.Raw, err = model.DecodeGamePayload(raw); err != nil {
		return nil, fmt.Errorf("decode raw for game %d: %w", g.GameID, err)
	}
	if len(standingsRaw) > 0 {
		var snap model.StandingsSnapshot
		if err := decodeJSONColumn(standingsRaw, &snap); err != nil {
			return nil, fmt.Errorf("decode standings for game %d: %w", g.GameID, err)
		}
		g.StandingsSnapshot = &snap
	}
	return &g, nil
}

func scanGames(rows *sql.Rows) ([]model.Game, error) {
	defer rows.Close()
	games := make([]model.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// jsonArgs returns the encoded scorers, raw and standings columns.
func jsonArgs(g *model.Game) (scorers, raw, standings interface{}, err error) {
	if g.Scorers != nil {
		if scorers, err = jsonParam(g.Scorers); err != nil {
			return nil, nil, nil, err
		}
	}
	if g.Raw != nil {
		b, encErr := g.Raw.Encode()
		if encErr != nil {
			return nil, nil, nil, encErr
		}
		raw = string(b)
	}
	if g.StandingsSnapshot != nil {
		if standings, err = jsonParam(g.StandingsSnapshot); err != nil {
			return nil, nil, nil, err
		}
	}
	return scorers, raw, standings, nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID int64) (*model.Game, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE game_id = $1`, gameID)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %d: %w", gameID, model.ErrNotFound)
	}
	return g, err
}

func (r *GameRepository) Create(ctx context.Context, g *model.Game) error {
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	scorers, raw, standings, err := jsonArgs(g)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO games (`+gameColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
		ON CONFLICT (game_id) DO NOTHING`,
		g.GameID, g.GameDateUTC, string(g.Status), g.HomeTeam, g.AwayTeam, g.HomeScore, g.AwayScore,
		scorers, raw, g.RecapText, g.SummaryLine, g.NextGameStoryline, g.RecapGenerated, g.BasicStatsFetched,
		g.VideosFetched, g.RedditFetched, g.QuotesFetched, g.StatusUpdatedAt, g.CompletedAt, g.ArchivedAt,
		standings, g.NextOpponent, g.NextGameDate, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("game %d: %w", g.GameID, model.ErrAlreadyExists)
	}
	return nil
}

// Save writes every mutable column of an existing game.
func (r *GameRepository) Save(ctx context.Context, g *model.Game) error {
	g.UpdatedAt = time.Now().UTC()
	scorers, raw, standings, err := jsonArgs(g)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE games SET game_date_utc=$2, status=$3, home_team=$4, away_team=$5,
		home_score=$6, away_score=$7, scorers=$8, raw=$9, recap_text=$10, summary_line=$11, next_game_storyline=$12,
		recap_generated=$13, basic_stats_fetched=$14, videos_fetched=$15, reddit_fetched=$16, quotes_fetched=$17,
		status_updated_at=$18, completed_at=$19, archived_at=$20, standings_snapshot=$21, next_opponent=$22,
		next_game_date=$23, updated_at=$24
		WHERE game_id=$1`,
		g.GameID, g.GameDateUTC, string(g.Status), g.HomeTeam, g.AwayTeam, g.HomeScore, g.AwayScore,
		scorers, raw, g.RecapText, g.SummaryLine, g.NextGameStoryline, g.RecapGenerated, g.BasicStatsFetched,
		g.VideosFetched, g.RedditFetched, g.QuotesFetched, g.StatusUpdatedAt, g.CompletedAt, g.ArchivedAt,
		standings, g.NextOpponent, g.NextGameDate, g.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("game %d: %w", g.GameID, model.ErrNotFound)
	}
	return nil
}

func (r *GameRepository) Delete(ctx context.Context, gameID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE game_id = $1`, gameID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("game %d: %w", gameID, model.ErrNotFound)
	}
	return nil
}

func statusArray(statuses []model.GameStatus) interface{} {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return pq.Array(out)
}

// ListRecent returns games in the given statuses, newest kickoff first. An empty team lists all teams.
func (r *GameRepository) ListRecent(ctx context.Context, limit int, team string, statuses []model.GameStatus) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games
		WHERE status = ANY($1) AND ($2 = '' OR home_team = $2 OR away_team = $2)
		ORDER BY game_date_utc DESC LIMIT $3`, statusArray(statuses), team, limit)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

func (r *GameRepository) ListWithStats(ctx context.Context) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games
		WHERE basic_stats_fetched = true ORDER BY game_date_utc DESC`)
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

func (r *GameRepository) ListMissingVideos(ctx context.Context, statuses []model.GameStatus) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games
		WHERE status = ANY($1) AND videos_fetched = false ORDER BY game_date_utc ASC`, statusArray(statuses))
	if err != nil {
		return nil, err
	}
	return scanGames(rows)
}

func (r *GameRepository) CountTeamGamesThrough(ctx context.Context, team string, kickoff time.Time, gameID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games
		WHERE (home_team = $1 OR away_team = $1)
		AND (game_date_utc < $2 OR (game_date_utc = $2 AND game_id <= $3))`, team, kickoff, gameID).Scan(&n)
	return n, err
}

// NextScheduled returns the team's first SCHEDULED game after the given instant, or nil.
func (r *GameRepository) NextScheduled(ctx context.Context, team string, after time.Time) (*model.Game, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games
		WHERE status = $1 AND (home_team = $2 OR away_team = $2) AND game_date_utc > $3
		ORDER BY game_date_utc ASC LIMIT 1`, string(model.GameStatusScheduled), team, after)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

func (r *GameRepository) Stats(ctx context.Context) (*dto.DatabaseStats, error) {
	var (
		stats  dto.DatabaseStats
		sizeMB float64
	)
	err := r.db.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = ANY($1)),
		COUNT(*) FILTER (WHERE videos_fetched = true),
		COUNT(*) FILTER (WHERE status = ANY($1) AND videos_fetched = false)
		FROM games`, statusArray(model.CompletedStatuses)).
		Scan(&stats.Games.Total, &stats.Games.Completed, &stats.Games.WithVideos, &stats.Games.PendingVideos)
	if err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&stats.VideosTotal); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT pg_database_size(current_database()) / 1048576.0`).Scan(&sizeMB); err != nil {
		return nil, err
	}
	stats.DatabaseSizeMB = float64(int(sizeMB*100+0.5)) / 100
	return &stats, nil
}

func (r *GameRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ repository.IGame = (*GameRepository)(nil)
