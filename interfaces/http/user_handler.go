package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/interfaces/middleware"
	"nhl-fan-insights/usecase"
)

type IUserHandler interface {
	Me(ctx *gin.Context)
}

type UserHandler struct {
	userUsecase usecase.IUserUsecase
}

func NewUserHandler(userUsecase usecase.IUserUsecase) IUserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// Me returns the stored profile of the authenticated caller.
func (h *UserHandler) Me(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	user, err := h.userUsecase.GetByClerkID(ctx.Request.Context(), identity.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user, "is_admin": identity.IsAdmin})
}
