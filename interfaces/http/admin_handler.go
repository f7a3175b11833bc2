package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/usecase"
)

type IAdminHandler interface {
	ListJobs(ctx *gin.Context)
	RunJob(ctx *gin.Context)
}

type AdminHandler struct {
	jobUsecase usecase.IJobUsecase
}

func NewAdminHandler(jobUsecase usecase.IJobUsecase) IAdminHandler {
	return &AdminHandler{jobUsecase: jobUsecase}
}

func (h *AdminHandler) ListJobs(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.jobUsecase.List())
}

// RunJob handles POST /api/admin/jobs/:job/run and blocks until the job returns.
func (h *AdminHandler) RunJob(ctx *gin.Context) {
	job := ctx.Param("job")
	if err := h.jobUsecase.Run(ctx.Request.Context(), job); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"job": job, "status": "completed"})
}
