package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/usecase"
)

type IProspectHandler interface {
	List(ctx *gin.Context)
	Search(ctx *gin.Context)
}

type ProspectHandler struct {
	prospectUsecase usecase.IProspectUsecase
}

func NewProspectHandler(prospectUsecase usecase.IProspectUsecase) IProspectHandler {
	return &ProspectHandler{prospectUsecase: prospectUsecase}
}

func (h *ProspectHandler) List(ctx *gin.Context) {
	var draftYear *int
	if ctx.Query("draft_year") != "" {
		year, ok := queryInt(ctx, "draft_year", 0)
		if !ok {
			return
		}
		draftYear = &year
	}
	ctx.JSON(http.StatusOK, h.prospectUsecase.List(ctx.Request.Context(), ctx.Query("position"), draftYear))
}

func (h *ProspectHandler) Search(ctx *gin.Context) {
	name := strings.TrimSpace(ctx.Query("name"))
	if name == "" {
		badRequest(ctx, "name is required")
		return
	}
	ctx.JSON(http.StatusOK, h.prospectUsecase.Search(ctx.Request.Context(), name))
}
