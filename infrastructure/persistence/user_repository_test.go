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

func TestUserRepository_GetByClerkID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE clerk_id = $1`)).
		WithArgs("user_1").
		WillReturnRows(sqlmock.NewRows([]string{"clerk_id", "email", "username", "first_name", "last_name",
			"profile_image_url", "role", "is_active", "is_banned", "created_at", "updated_at"}).
			AddRow("user_1", "fan@example.com", "teal4life", nil, nil, nil, "admin", true, false, now, now))

	user, err := NewUserRepository(db).GetByClerkID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleAdmin, user.Role)
	require.NotNil(t, user.Username)
	assert.Equal(t, "teal4life", *user.Username)
	assert.Nil(t, user.FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByClerkIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE clerk_id = $1`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"clerk_id"}))

	_, err = NewUserRepository(db).GetByClerkID(context.Background(), "ghost")
	assert.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpsertKeepsModerationState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (clerk_id) DO UPDATE SET`)).
		WithArgs("user_2", "banned@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "user", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"role", "is_active", "is_banned", "created_at", "updated_at"}).
			AddRow("user", true, true, created, time.Now().UTC()))

	user := &model.User{ClerkID: "user_2", Email: "banned@example.com"}
	require.NoError(t, NewUserRepository(db).Upsert(context.Background(), user))
	assert.True(t, user.IsBanned)
	assert.Equal(t, model.UserRoleUser, user.Role)
	assert.Equal(t, created, user.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
