package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/usecase"
)

type IRedditHandler interface {
	GetGameDiscussion(ctx *gin.Context)
}

type RedditHandler struct {
	redditUsecase usecase.IRedditUsecase
}

func NewRedditHandler(redditUsecase usecase.IRedditUsecase) IRedditHandler {
	return &RedditHandler{redditUsecase: redditUsecase}
}

// GetGameDiscussion handles GET /api/reddit/game/:game_id
func (h *RedditHandler) GetGameDiscussion(ctx *gin.Context) {
	if _, ok := paramID(ctx, "game_id"); !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit", usecase.DefaultRedditLimit)
	if !ok {
		return
	}
	discussion, err := h.redditUsecase.GetGameDiscussion(ctx.Request.Context(), ctx.Query("away_team"), ctx.Query("home_team"), ctx.Query("game_date"), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, discussion)
}
