package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/interfaces/middleware"
	"nhl-fan-insights/usecase"
)

type ICommentHandler interface {
	ListByGame(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	Flag(ctx *gin.Context)
}

type CommentHandler struct {
	commentUsecase usecase.ICommentUsecase
}

func NewCommentHandler(commentUsecase usecase.ICommentUsecase) ICommentHandler {
	return &CommentHandler{commentUsecase: commentUsecase}
}

// ListByGame handles GET /api/comments/game/:game_id
func (h *CommentHandler) ListByGame(ctx *gin.Context) {
	gameID, ok := paramID(ctx, "game_id")
	if !ok {
		return
	}
	skip, ok := queryInt(ctx, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit", usecase.DefaultCommentLimit)
	if !ok {
		return
	}
	threads, err := h.commentUsecase.ListByGame(ctx.Request.Context(), gameID, skip, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, threads)
}

func (h *CommentHandler) Create(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	comment, err := h.commentUsecase.Create(ctx.Request.Context(), *identity, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Update(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	comment, err := h.commentUsecase.Update(ctx.Request.Context(), *identity, id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := h.commentUsecase.Delete(ctx.Request.Context(), *identity, id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *CommentHandler) Flag(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := h.commentUsecase.Flag(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
