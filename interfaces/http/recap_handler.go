package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/usecase"
)

type IRecapHandler interface {
	Get(ctx *gin.Context)
	All(ctx *gin.Context)
}

type RecapHandler struct {
	recapUsecase usecase.IRecapUsecase
}

func NewRecapHandler(recapUsecase usecase.IRecapUsecase) IRecapHandler {
	return &RecapHandler{recapUsecase: recapUsecase}
}

// Get handles GET /recap?game_id=
func (h *RecapHandler) Get(ctx *gin.Context) {
	gameID, err := strconv.ParseInt(ctx.Query("game_id"), 10, 64)
	if err != nil || gameID <= 0 {
		badRequest(ctx, "game_id is required")
		return
	}
	recap, err := h.recapUsecase.Get(ctx.Request.Context(), gameID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, recap)
}

func (h *RecapHandler) All(ctx *gin.Context) {
	recaps, err := h.recapUsecase.All(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, recaps)
}
