package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/infrastructure/metrics"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates or generates X-Request-ID and stores it on the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Header(RequestIDHeader, id)
		ctx.Request = ctx.Request.WithContext(logger.ContextWithRequestID(ctx.Request.Context(), id))
		ctx.Next()
	}
}

// Metrics records request counts and latency by route template.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}

// AccessLog writes one line per request after it completes.
func AccessLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		if ctx.FullPath() == "/health" || ctx.FullPath() == "/metrics" {
			return
		}
		logger.WithContext(ctx.Request.Context()).
			WithField("method", ctx.Request.Method).
			WithField("path", ctx.Request.URL.Path).
			WithField("status", ctx.Writer.Status()).
			WithField("latencyMs", time.Since(start).Milliseconds()).
			Info("HTTP request")
	}
}
