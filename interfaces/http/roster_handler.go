package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/usecase"
)

type IRosterHandler interface {
	CurrentRoster(ctx *gin.Context)
	PlayerHistory(ctx *gin.Context)
	PlayerStats(ctx *gin.Context)
	Standings(ctx *gin.Context)
}

type RosterHandler struct {
	rosterUsecase    usecase.IRosterUsecase
	standingsUsecase usecase.IStandingsUsecase
}

func NewRosterHandler(rosterUsecase usecase.IRosterUsecase, standingsUsecase usecase.IStandingsUsecase) IRosterHandler {
	return &RosterHandler{rosterUsecase: rosterUsecase, standingsUsecase: standingsUsecase}
}

func (h *RosterHandler) CurrentRoster(ctx *gin.Context) {
	roster, err := h.rosterUsecase.CurrentRoster(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, roster)
}

func (h *RosterHandler) PlayerHistory(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	history, err := h.rosterUsecase.PlayerHistory(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}

// PlayerStats passes the NHL landing document through unchanged.
func (h *RosterHandler) PlayerStats(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	raw, err := h.rosterUsecase.PlayerStats(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (h *RosterHandler) Standings(ctx *gin.Context) {
	snap, err := h.standingsUsecase.Snapshot(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}
