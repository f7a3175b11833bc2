package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nhl-fan-insights/domain/repository"
	httpHandler "nhl-fan-insights/interfaces/http"
	"nhl-fan-insights/interfaces/middleware"
	"nhl-fan-insights/usecase"
)

var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// AllowedOrigins returns the configured frontend origins plus the local development ones.
func AllowedOrigins(frontendURL string) []string {
	origins := append([]string(nil), defaultOrigins...)
	for _, o := range strings.Split(frontendURL, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && !contains(origins, o) {
			origins = append(origins, o)
		}
	}
	return origins
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func InitiateRouter(
	frontendURL string,
	healthHandler httpHandler.IHealthHandler,
	gameHandler httpHandler.IGameHandler,
	commentHandler httpHandler.ICommentHandler,
	prospectHandler httpHandler.IProspectHandler,
	redditHandler httpHandler.IRedditHandler,
	rosterHandler httpHandler.IRosterHandler,
	recapHandler httpHandler.IRecapHandler,
	monitoringHandler httpHandler.IMonitoringHandler,
	adminHandler httpHandler.IAdminHandler,
	userHandler httpHandler.IUserHandler,
	gameStream gin.HandlerFunc,
	verifier repository.IAuthVerifier,
	userUsecase usecase.IUserUsecase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     AllowedOrigins(frontendURL),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/recap", recapHandler.Get)
	router.GET("/recap/all", recapHandler.All)

	auth := middleware.Auth(verifier, userUsecase)
	admin := middleware.RequireAdmin()

	api := router.Group("/api")
	{
		games := api.Group("/games")
		games.GET("/recent", gameHandler.GetRecent)
		if gameStream != nil {
			games.GET("/stream", gameStream)
		}
		games.GET("/:id", gameHandler.GetDetail)
		games.POST("", auth, admin, gameHandler.Create)
		games.PATCH("/:id", auth, admin, gameHandler.Update)
		games.DELETE("/:id", auth, admin, gameHandler.Delete)

		comments := api.Group("/comments")
		comments.GET("/game/:game_id", commentHandler.ListByGame)
		comments.POST("", auth, commentHandler.Create)
		comments.PATCH("/:id", auth, commentHandler.Update)
		comments.DELETE("/:id", auth, commentHandler.Delete)
		comments.POST("/:id/flag", auth, commentHandler.Flag)

		api.GET("/prospects", prospectHandler.List)
		api.GET("/prospects/search", prospectHandler.Search)

		api.GET("/reddit/game/:game_id", redditHandler.GetGameDiscussion)

		api.GET("/roster", rosterHandler.CurrentRoster)
		api.GET("/players/:id/history", rosterHandler.PlayerHistory)
		api.GET("/players/:id/stats", rosterHandler.PlayerStats)
		api.GET("/standings", rosterHandler.Standings)

		api.GET("/users/me", auth, userHandler.Me)

		monitoring := api.Group("/monitoring")
		monitoring.GET("/metrics", monitoringHandler.Metrics)
		monitoring.GET("/cache/stats", monitoringHandler.CacheStats)
		monitoring.POST("/cache/reset", monitoringHandler.ResetCache)
		monitoring.GET("/cache/health", monitoringHandler.CacheHealth)
		monitoring.GET("/database/stats", monitoringHandler.DatabaseStats)
		monitoring.GET("/logs/recent", monitoringHandler.RecentLogs)
		monitoring.GET("/health/detailed", monitoringHandler.DetailedHealth)

		jobs := api.Group("/admin/jobs", auth, admin)
		jobs.GET("", adminHandler.ListJobs)
		jobs.POST("/:job/run", adminHandler.RunJob)
	}

	return router
}
