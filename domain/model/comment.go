package model

import "time"

const DeletedCommentContent = "[deleted]"

type Comment struct {
	ID            int64      `json:"id"`
	GameID        int64      `json:"game_id"`
	UserID        string     `json:"user_id"`
	UserName      string     `json:"user_name"`
	UserAvatarURL *string    `json:"user_avatar_url"`
	ParentID      *int64     `json:"parent_comment_id"`
	Content       string     `json:"content"`
	IsDeleted     bool       `json:"is_deleted"`
	IsFlagged     bool       `json:"is_flagged"`
	DeletedBy     *string    `json:"deleted_by,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	EditedAt      *time.Time `json:"edited_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CommentThread is a top-level comment with its direct replies in chronological order.
type CommentThread struct {
	Comment
	Replies      []Comment `json:"replies"`
	RepliesCount int       `json:"replies_count"`
}
