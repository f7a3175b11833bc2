package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/usecase"
)

type IMonitoringHandler interface {
	Metrics(ctx *gin.Context)
	CacheStats(ctx *gin.Context)
	ResetCache(ctx *gin.Context)
	CacheHealth(ctx *gin.Context)
	DatabaseStats(ctx *gin.Context)
	RecentLogs(ctx *gin.Context)
	DetailedHealth(ctx *gin.Context)
}

type MonitoringHandler struct {
	monitoringUsecase usecase.IMonitoringUsecase
}

func NewMonitoringHandler(monitoringUsecase usecase.IMonitoringUsecase) IMonitoringHandler {
	return &MonitoringHandler{monitoringUsecase: monitoringUsecase}
}

func (h *MonitoringHandler) Metrics(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.monitoringUsecase.Metrics(ctx.Request.Context()))
}

func (h *MonitoringHandler) CacheStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.monitoringUsecase.CacheStats())
}

func (h *MonitoringHandler) ResetCache(ctx *gin.Context) {
	h.monitoringUsecase.ResetCacheStats()
	ctx.JSON(http.StatusOK, gin.H{"message": "Cache metrics reset"})
}

func (h *MonitoringHandler) CacheHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.monitoringUsecase.CacheHealth(ctx.Request.Context()))
}

func (h *MonitoringHandler) DatabaseStats(ctx *gin.Context) {
	stats, err := h.monitoringUsecase.DatabaseStats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

func (h *MonitoringHandler) RecentLogs(ctx *gin.Context) {
	limit, ok := queryInt(ctx, "limit", 50)
	if !ok {
		return
	}
	if limit < 1 || limit > 200 {
		badRequest(ctx, "limit must be between 1 and 200")
		return
	}
	logs := h.monitoringUsecase.RecentLogs(limit)
	ctx.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}

func (h *MonitoringHandler) DetailedHealth(ctx *gin.Context) {
	health := h.monitoringUsecase.DetailedHealth(ctx.Request.Context())
	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, health)
}
