package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

type RosterRepository struct {
	db *sql.DB
}

func NewRosterRepository(db *sql.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rosterTx struct {
	q querier
}

func (r *RosterRepository) WithinTx(ctx context.Context, fn func(tx repository.IRosterTx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(&rosterTx{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

const playerColumns = `nhl_player_id, name, position, jersey_number, birthdate, nhl_profile_url, headshot_url`

func scanPlayer(row rowScanner) (*model.PlayerInfo, error) {
	var p model.PlayerInfo
	if err := row.Scan(&p.NHLPlayerID, &p.Name, &p.Position, &p.JerseyNumber, &p.Birthdate,
		&p.NHLProfileURL, &p.HeadshotURL); err != nil {
		return nil, err
	}
	return &p, nil
}

func getPlayer(ctx context.Context, q querier, playerID int64) (*model.PlayerInfo, error) {
	p, err := scanPlayer(q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM player_info WHERE nhl_player_id = $1`, playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", playerID, model.ErrNotFound)
	}
	return p, err
}

func scanStints(rows *sql.Rows) ([]model.PlayerTeamHistory, error) {
	defer rows.Close()
	stints := make([]model.PlayerTeamHistory, 0)
	for rows.Next() {
		var h model.PlayerTeamHistory
		if err := rows.Scan(&h.ID, &h.PlayerID, &h.TeamID, &h.TeamName, &h.StartDate, &h.EndDate); err != nil {
			return nil, err
		}
		stints = append(stints, h)
	}
	return stints, rows.Err()
}

func (t *rosterTx) OpenStints(ctx context.Context, teamID string) ([]model.PlayerTeamHistory, error) {
	rows, err := t.q.QueryContext(ctx, `SELECT id, player_id, team_id, team_name, start_date, end_date
		FROM player_team_history WHERE team_id = $1 AND end_date IS NULL FOR UPDATE`, teamID)
	if err != nil {
		return nil, err
	}
	return scanStints(rows)
}

func (t *rosterTx) GetPlayer(ctx context.Context, playerID int64) (*model.PlayerInfo, error) {
	return getPlayer(ctx, t.q, playerID)
}

func (t *rosterTx) UpsertPlayer(ctx context.Context, p *model.PlayerInfo) error {
	_, err := t.q.ExecContext(ctx, `INSERT INTO player_info (`+playerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (nhl_player_id) DO UPDATE SET
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			jersey_number = EXCLUDED.jersey_number,
			birthdate = COALESCE(EXCLUDED.birthdate, player_info.birthdate),
			nhl_profile_url = EXCLUDED.nhl_profile_url,
			headshot_url = COALESCE(EXCLUDED.headshot_url, player_info.headshot_url)`,
		p.NHLPlayerID, p.Name, p.Position, p.JerseyNumber, p.Birthdate, p.NHLProfileURL, p.HeadshotURL)
	return err
}

func (t *rosterTx) CloseStint(ctx context.Context, playerID int64, teamID string, endDate time.Time) error {
	_, err := t.q.ExecContext(ctx, `UPDATE player_team_history SET end_date = $3
		WHERE player_id = $1 AND team_id = $2 AND end_date IS NULL`, playerID, teamID, endDate)
	return err
}

func (t *rosterTx) OpenStint(ctx context.Context, h *model.PlayerTeamHistory) error {
	return t.q.QueryRowContext(ctx, `INSERT INTO player_team_history (player_id, team_id, team_name, start_date)
		VALUES ($1,$2,$3,$4) RETURNING id`, h.PlayerID, h.TeamID, h.TeamName, h.StartDate).Scan(&h.ID)
}

// CurrentRoster lists players with an open stint on teamID, by jersey number.
func (r *RosterRepository) CurrentRoster(ctx context.Context, teamID string) ([]model.RosterEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT p.nhl_player_id, p.name, p.position, p.jersey_number, p.headshot_url,
		p.nhl_profile_url, h.start_date
		FROM player_team_history h JOIN player_info p ON p.nhl_player_id = h.player_id
		WHERE h.team_id = $1 AND h.end_date IS NULL
		ORDER BY p.jersey_number NULLS LAST, p.name`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roster := make([]model.RosterEntry, 0)
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.NHLPlayerID, &e.Name, &e.Position, &e.JerseyNumber, &e.HeadshotURL,
			&e.NHLProfileURL, &e.JoinedTeam); err != nil {
			return nil, err
		}
		roster = append(roster, e)
	}
	return roster, rows.Err()
}

func (r *RosterRepository) PlayerHistory(ctx context.Context, playerID int64) ([]model.PlayerTeamHistory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, player_id, team_id, team_name, start_date, end_date
		FROM player_team_history WHERE player_id = $1 ORDER BY start_date DESC, id DESC`, playerID)
	if err != nil {
		return nil, err
	}
	return scanStints(rows)
}

func (r *RosterRepository) GetPlayer(ctx context.Context, playerID int64) (*model.PlayerInfo, error) {
	return getPlayer(ctx, r.db, playerID)
}

var _ repository.IRoster = (*RosterRepository)(nil)
