package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/usecase"
)

type IHealthHandler interface {
	Health(ctx *gin.Context)
	Ready(ctx *gin.Context)
}

type HealthHandler struct {
	monitoringUsecase usecase.IMonitoringUsecase
}

func NewHealthHandler(monitoringUsecase usecase.IMonitoringUsecase) IHealthHandler {
	return &HealthHandler{monitoringUsecase: monitoringUsecase}
}

// Health returns OK for liveness checks
func (h *HealthHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *HealthHandler) Ready(ctx *gin.Context) {
	if err := h.monitoringUsecase.Ready(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
