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

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	err := r.db.QueryRowContext(ctx, `SELECT clerk_id, email, username, first_name, last_name, profile_image_url,
		role, is_active, is_banned, created_at, updated_at FROM users WHERE clerk_id = $1`, clerkID).
		Scan(&u.ClerkID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.ProfileImageURL,
			&role, &u.IsActive, &u.IsBanned, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", clerkID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.Role = model.UserRole(role)
	return &u, nil
}

// Upsert refreshes profile fields while keeping role and ban state owned by moderation.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	if u.Role == "" {
		u.Role = model.UserRoleUser
	}
	return r.db.QueryRowContext(ctx, `INSERT INTO users
		(clerk_id, email, username, first_name, last_name, profile_image_url, role, is_active, is_banned, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,true,false,$8,$8)
		ON CONFLICT (clerk_id) DO UPDATE SET
			email = EXCLUDED.email,
			username = COALESCE(EXCLUDED.username, users.username),
			first_name = COALESCE(EXCLUDED.first_name, users.first_name),
			last_name = COALESCE(EXCLUDED.last_name, users.last_name),
			profile_image_url = COALESCE(EXCLUDED.profile_image_url, users.profile_image_url),
			updated_at = EXCLUDED.updated_at
		RETURNING role, is_active, is_banned, created_at, updated_at`,
		u.ClerkID, u.Email, u.Username, u.FirstName, u.LastName, u.ProfileImageURL, string(u.Role), now).
		Scan((*string)(&u.Role), &u.IsActive, &u.IsBanned, &u.CreatedAt, &u.UpdatedAt)
}

var _ repository.IUser = (*UserRepository)(nil)
