package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/usecase"
)

type IGameHandler interface {
	GetRecent(ctx *gin.Context)
	GetDetail(ctx *gin.Context)
	Create(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type GameHandler struct {
	gameUsecase usecase.IGameUsecase
}

func NewGameHandler(gameUsecase usecase.IGameUsecase) IGameHandler {
	return &GameHandler{gameUsecase: gameUsecase}
}

// GetRecent handles GET /api/games/recent
func (h *GameHandler) GetRecent(ctx *gin.Context) {
	limit, ok := queryInt(ctx, "limit", usecase.DefaultRecentLimit)
	if !ok {
		return
	}
	games, err := h.gameUsecase.GetRecent(ctx.Request.Context(), limit, ctx.Query("team"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, games)
}

// GetDetail handles GET /api/games/:id
func (h *GameHandler) GetDetail(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	detail, err := h.gameUsecase.GetDetail(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

func (h *GameHandler) Create(ctx *gin.Context) {
	var req dto.CreateGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.WithContext(ctx.Request.Context()).WithField("error", err).Info(ErrorUnmarshal)
		badRequest(ctx, err.Error())
		return
	}
	game, err := h.gameUsecase.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, game)
}

func (h *GameHandler) Update(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var update model.GameUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		logger.WithContext(ctx.Request.Context()).WithField("error", err).Info(ErrorUnmarshal)
		badRequest(ctx, err.Error())
		return
	}
	game, err := h.gameUsecase.Update(ctx.Request.Context(), id, update)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, game)
}

func (h *GameHandler) Delete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := h.gameUsecase.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
