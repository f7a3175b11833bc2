package dto

type CreateCommentRequest struct {
	GameID          int64  `json:"game_id" binding:"required"`
	Content         string `json:"content" binding:"required,min=1,max=5000"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}
