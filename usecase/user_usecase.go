package usecase

import (
	"context"
	"fmt"
	"strings"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
)

type IUserUsecase interface {
	// Sync upserts the verified caller and returns the stored user. Banned users are rejected.
	Sync(ctx context.Context, identity *model.Identity) (*model.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*model.User, error)
}

type userUsecase struct {
	users repository.IUser
}

func NewUserUsecase(users repository.IUser) IUserUsecase {
	return &userUsecase{users: users}
}

func (u *userUsecase) Sync(ctx context.Context, identity *model.Identity) (*model.User, error) {
	user := &model.User{ClerkID: identity.UserID, Role: model.UserRoleUser, IsActive: true}
	if identity.Email != nil {
		user.Email = *identity.Email
	}
	if identity.Username != "" {
		username := identity.Username
		user.Username = &username
		if first, last, ok := strings.Cut(username, " "); ok {
			user.FirstName, user.LastName = &first, &last
		}
	}
	user.ProfileImageURL = identity.ImageURL
	if err := u.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", identity.UserID, err)
	}
	if user.IsBanned {
		return nil, fmt.Errorf("user %s is banned: %w", identity.UserID, model.ErrForbidden)
	}
	if user.Role == model.UserRoleAdmin {
		identity.IsAdmin = true
	}
	return user, nil
}

func (u *userUsecase) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	return u.users.GetByClerkID(ctx, clerkID)
}
