package repository

import (
	"context"

	"nhl-fan-insights/domain/model"
)

type IComment interface {
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	ListTopLevel(ctx context.Context, gameID int64, skip, limit int) ([]model.Comment, error)
	ListReplies(ctx context.Context, parentIDs []int64) ([]model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
	Update(ctx context.Context, comment *model.Comment) error
}

type IUser interface {
	GetByClerkID(ctx context.Context, clerkID string) (*model.User, error)
	Upsert(ctx context.Context, user *model.User) error
}
