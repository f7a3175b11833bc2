package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

const commentColumns = `id, game_id, user_id, user_name, user_avatar_url, parent_id, content, is_deleted,
	is_flagged, deleted_by, deleted_at, edited_at, created_at, updated_at`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row rowScanner) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.GameID, &c.UserID, &c.UserName, &c.UserAvatarURL, &c.ParentID, &c.Content,
		&c.IsDeleted, &c.IsFlagged, &c.DeletedBy, &c.DeletedAt, &c.EditedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanComments(rows *sql.Rows) ([]model.Comment, error) {
	defer rows.Close()
	out := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %d: %w", id, model.ErrNotFound)
	}
	return c, err
}

// ListTopLevel pages through a game's root comments, newest first.
func (r *CommentRepository) ListTopLevel(ctx context.Context, gameID int64, skip, limit int) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments
		WHERE game_id = $1 AND parent_id IS NULL
		ORDER BY created_at DESC OFFSET $2 LIMIT $3`, gameID, skip, limit)
	if err != nil {
		return nil, err
	}
	return scanComments(rows)
}

// ListReplies returns direct replies of the given parents, oldest first.
func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return []model.Comment{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments
		WHERE parent_id = ANY($1) ORDER BY created_at ASC`, pq.Array(parentIDs))
	if err != nil {
		return nil, err
	}
	return scanComments(rows)
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	return r.db.QueryRowContext(ctx, `INSERT INTO comments
		(game_id, user_id, user_name, user_avatar_url, parent_id, content, is_deleted, is_flagged, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,false,false,$7,$7) RETURNING id`,
		c.GameID, c.UserID, c.UserName, c.UserAvatarURL, c.ParentID, c.Content, now).Scan(&c.ID)
}

// Update writes the mutable moderation and content columns.
func (r *CommentRepository) Update(ctx context.Context, c *model.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE comments SET content=$2, is_deleted=$3, is_flagged=$4,
		deleted_by=$5, deleted_at=$6, edited_at=$7, updated_at=$8 WHERE id=$1`,
		c.ID, c.Content, c.IsDeleted, c.IsFlagged, c.DeletedBy, c.DeletedAt, c.EditedAt, c.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("comment %d: %w", c.ID, model.ErrNotFound)
	}
	return nil
}

var _ repository.IComment = (*CommentRepository)(nil)
