package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/infrastructure/logger"
)

const ErrorUnmarshal = "Error while unmarshal"

// statusFor maps a usecase error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error) {
	status := statusFor(err)
	log := logger.WithContext(ctx.Request.Context()).WithField("error", err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed")
		if status == http.StatusInternalServerError {
			ctx.JSON(status, gin.H{"error": "internal server error"})
			return
		}
	} else {
		log.Info("Request rejected")
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func paramID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter, falling back to def when absent.
func queryInt(ctx *gin.Context, name string, def int) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(ctx, "invalid "+name)
		return 0, false
	}
	return v, true
}
