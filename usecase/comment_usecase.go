package usecase

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
)

const (
	DefaultCommentLimit = 50
	MaxCommentLimit     = 100
)

type ICommentUsecase interface {
	ListByGame(ctx context.Context, gameID int64, skip, limit int) ([]model.CommentThread, error)
	Create(ctx context.Context, author model.Identity, req dto.CreateCommentRequest) (*model.Comment, error)
	Update(ctx context.Context, caller model.Identity, commentID int64, req dto.UpdateCommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, caller model.Identity, commentID int64) error
	Flag(ctx context.Context, commentID int64) error
}

type commentUsecase struct {
	comments repository.IComment
	games    repository.IGame
	clock    clockwork.Clock
}

func NewCommentUsecase(comments repository.IComment, games repository.IGame, clock clockwork.Clock) ICommentUsecase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &commentUsecase{comments: comments, games: games, clock: clock}
}

func (u *commentUsecase) ListByGame(ctx context.Context, gameID int64, skip, limit int) ([]model.CommentThread, error) {
	if skip < 0 || limit < 1 || limit > MaxCommentLimit {
		return nil, fmt.Errorf("skip must be >= 0 and limit between 1 and %d: %w", MaxCommentLimit, model.ErrInvalidInput)
	}
	top, err := u.comments.ListTopLevel(ctx, gameID, skip, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(top))
	for _, c := range top {
		ids = append(ids, c.ID)
	}
	replies, err := u.comments.ListReplies(ctx, ids)
	if err != nil {
		return nil, err
	}
	byParent := make(map[int64][]model.Comment, len(top))
	for _, r := range replies {
		if r.ParentID != nil {
			byParent[*r.ParentID] = append(byParent[*r.ParentID], r)
		}
	}

	out := make([]model.CommentThread, 0, len(top))
	for _, c := range top {
		rs := byParent[c.ID]
		if rs == nil {
			rs = []model.Comment{}
		}
		out = append(out, model.CommentThread{Comment: c, Replies: rs, RepliesCount: len(rs)})
	}
	return out, nil
}

func (u *commentUsecase) Create(ctx context.Context, author model.Identity, req dto.CreateCommentRequest) (*model.Comment, error) {
	if _, err := u.games.GetByID(ctx, req.GameID); err != nil {
		return nil, err
	}
	if req.ParentCommentID != nil {
		parent, err := u.comments.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment: %w", err)
		}
		if parent.GameID != req.GameID {
			return nil, fmt.Errorf("parent comment belongs to another game: %w", model.ErrInvalidInput)
		}
	}
	now := u.clock.Now()
	comment := &model.Comment{
		GameID:        req.GameID,
		UserID:        author.UserID,
		UserName:      author.Username,
		UserAvatarURL: author.ImageURL,
		ParentID:      req.ParentCommentID,
		Content:       req.Content,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).WithField("commentId", comment.ID).WithField("gameId", comment.GameID).Info("Comment created")
	return comment, nil
}

func (u *commentUsecase) Update(ctx context.Context, caller model.Identity, commentID int64, req dto.UpdateCommentRequest) (*model.Comment, error) {
	comment, err := u.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != caller.UserID {
		return nil, fmt.Errorf("not authorized to edit this comment: %w", model.ErrForbidden)
	}
	now := u.clock.Now()
	comment.Content = req.Content
	comment.EditedAt = &now
	comment.UpdatedAt = now
	if err := u.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete soft-deletes: the row stays so replies keep their parent.
func (u *commentUsecase) Delete(ctx context.Context, caller model.Identity, commentID int64) error {
	comment, err := u.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != caller.UserID && !caller.IsAdmin {
		return fmt.Errorf("not authorized to delete this comment: %w", model.ErrForbidden)
	}
	now := u.clock.Now()
	deletedBy := caller.UserID
	comment.IsDeleted = true
	comment.Content = model.DeletedCommentContent
	comment.DeletedBy = &deletedBy
	comment.DeletedAt = &now
	comment.UpdatedAt = now
	if err := u.comments.Update(ctx, comment); err != nil {
		return err
	}
	logger.WithContext(ctx).WithField("commentId", commentID).WithField("by", deletedBy).Info("Comment deleted")
	return nil
}

func (u *commentUsecase) Flag(ctx context.Context, commentID int64) error {
	comment, err := u.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.IsFlagged {
		return nil
	}
	comment.IsFlagged = true
	comment.UpdatedAt = u.clock.Now()
	return u.comments.Update(ctx, comment)
}
