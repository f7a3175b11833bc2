package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/cache"
	"nhl-fan-insights/infrastructure/clients/claude"
	"nhl-fan-insights/infrastructure/clients/clerk"
	"nhl-fan-insights/infrastructure/clients/nhl"
	"nhl-fan-insights/infrastructure/clients/reddit"
	youtubeclient "nhl-fan-insights/infrastructure/clients/youtube"
	"nhl-fan-insights/infrastructure/configuration"
	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/infrastructure/persistence"
	"nhl-fan-insights/infrastructure/pubsub"
	"nhl-fan-insights/infrastructure/realtime"
	"nhl-fan-insights/infrastructure/resilience"
	"nhl-fan-insights/infrastructure/scheduler"
	"nhl-fan-insights/infrastructure/servicebus"
	httpHandler "nhl-fan-insights/interfaces/http"
	"nhl-fan-insights/server"
	"nhl-fan-insights/usecase"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	cfg := configuration.C
	logger.Configure(cfg.Logger.Level, cfg.Logger.Format)
	clock := clockwork.NewRealClock()
	loc := cfg.Team.Location()

	db, err := persistence.NewPostgreSQLDB(ctx, cfg.Database.Psql)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	defer db.Close()
	if err := persistence.Migrate(db); err != nil {
		logger.GetLogger().WithField("error", err).Error("Schema migration failed")
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.RedisClient.Enabled {
		if redisClient, err = cache.NewCache(ctx, cfg.RedisClient.Addr(), cfg.RedisClient.Username, cfg.RedisClient.Password, cfg.RedisClient.DB); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis unreachable at startup, cache calls degrade to misses")
		}
	}
	responseCache := cache.NewRedisCache(redisClient, cfg.RedisClient.Enabled, cfg.RedisClient.Host, cfg.RedisClient.Port, cfg.RedisClient.DB)
	cacheTTL := time.Duration(cfg.RedisClient.TTL) * time.Second

	gameRepository := persistence.NewGameRepository(db)
	videoRepository := persistence.NewVideoRepository(db)
	commentRepository := persistence.NewCommentRepository(db)
	quoteRepository := persistence.NewQuoteRepository(db)
	milestoneRepository := persistence.NewMilestoneRepository(db)
	rosterRepository := persistence.NewRosterRepository(db)
	userRepository := persistence.NewUserRepository(db)

	nhlClient := nhl.NewClient(nhl.Config{
		BaseURL:   cfg.NHL.BaseURL,
		UserAgent: cfg.NHL.UserAgent,
		Timeout:   time.Duration(cfg.NHL.TimeoutSeconds) * time.Second,
	})
	redditClient := reddit.NewClient(reddit.Config{
		BaseURL:   cfg.Reddit.BaseURL,
		UserAgent: cfg.Reddit.UserAgent,
		Subreddit: cfg.Team.Subreddit,
	})

	var highlights repository.IHighlightSearch
	youtubeConfig := configuration.GetYouTubeConfig()
	if youtubeConfig.Configured() {
		youtubeClient, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
			ClientID:          youtubeConfig.ClientID,
			ClientSecret:      youtubeConfig.ClientSecret,
			RedirectURL:       youtubeConfig.RedirectURL,
			AccessToken:       youtubeConfig.AccessToken,
			RefreshToken:      youtubeConfig.RefreshToken,
			APIKey:            youtubeConfig.APIKey,
			OfficialChannelID: youtubeConfig.OfficialChannelID,
			TeamName:          youtubeConfig.TeamName,
			SeasonLabel:       youtubeConfig.SeasonLabel,
			RequestsPerSecond: youtubeConfig.RequestsPerSecond,
		})
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to initialize YouTube client, video enrichment disabled")
		} else {
			highlights = youtubeClient
		}
	} else {
		logger.GetLogger().Info("YouTube API credentials not configured, video enrichment disabled")
	}

	var recapGenerator repository.IRecapGenerator
	if cfg.Claude.APIKey != "" {
		recapGenerator = claude.NewClient(claude.Config{
			APIKey:      cfg.Claude.APIKey,
			BaseURL:     cfg.Claude.BaseURL,
			Model:       cfg.Claude.Model,
			MaxTokens:   cfg.Claude.MaxTokens,
			Temperature: cfg.Claude.Temperature,
			Timeout:     time.Duration(cfg.Claude.TimeoutSeconds) * time.Second,
			TeamName:    cfg.Team.Name,
		})
	} else {
		logger.GetLogger().Info("CLAUDE_API_KEY not set, recaps fall back to the box score summary")
	}

	verifier, err := clerk.NewVerifier(clerk.Config{
		SecretKey:    cfg.Clerk.SecretKey,
		JWTKey:       cfg.Clerk.JWTKey,
		APIBaseURL:   cfg.Clerk.APIBaseURL,
		AdminUserIDs: cfg.Clerk.AdminUserIDs,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Clerk verifier initialization failed")
		os.Exit(1)
	}

	// Status events go to SSE subscribers plus whichever brokers are configured.
	gameHub := realtime.NewGameHub()
	sinks := []repository.IGameEventPublisher{gameHub}

	var pubsubPublisher *pubsub.GameEventPublisher
	if pubsubClient, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID); err != nil {
		logger.GetLogger().WithField("error", err).Info("Pub/Sub not available, continuing without it")
	} else if pubsubPublisher, err = pubsub.NewGameEventPublisher(ctx, pubsubClient, cfg.Pubsub.Topic); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub topic unavailable")
	} else {
		sinks = append(sinks, pubsubPublisher)
		defer pubsubClient.Close()
	}

	var serviceBusSender *servicebus.GameEventSender
	if sbClient, err := servicebus.NewServiceBus(ctx, cfg.ServiceBus.Namespace); err != nil {
		logger.GetLogger().WithField("error", err).Info("Azure Service Bus not available, continuing without it")
	} else if serviceBusSender, err = servicebus.NewGameEventSender(sbClient, cfg.ServiceBus.Queue); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Service Bus queue unavailable")
	} else {
		sinks = append(sinks, serviceBusSender)
		defer sbClient.Close(context.Background())
	}
	events := realtime.NewFanout(sinks...)

	jobScheduler := scheduler.New(clock, loc)

	standingsUsecase := usecase.NewStandingsUsecase(nhlClient, responseCache, clock, cfg.Team.ID, cfg.Team.Division)
	pipelineUsecase := usecase.NewPipelineUsecase(usecase.PipelineDeps{
		Games:      gameRepository,
		Videos:     videoRepository,
		NHL:        nhlClient,
		Highlights: highlights,
		Recap:      recapGenerator,
		Reddit:     redditClient,
		Standings:  standingsUsecase,
		Cache:      responseCache,
		Events:     events,
		Scheduler:  jobScheduler,
		Clock:      clock,
	}, usecase.PipelineConfig{
		TeamID:   cfg.Team.ID,
		Location: loc,
		CriticalRetry: resilience.RetryPolicy{
			MaxAttempts: cfg.Pipeline.MaxAttempts,
			Backoff:     time.Duration(cfg.Pipeline.BackoffSeconds) * time.Second,
			Multiplier:  usecase.DefaultCriticalRetry.Multiplier,
			MaxBackoff:  time.Duration(cfg.Pipeline.MaxBackoffSeconds) * time.Second,
		},
		OtherVideoResults: int64(cfg.Pipeline.OtherVideoResults),
	})
	gameUsecase := usecase.NewGameUsecase(gameRepository, videoRepository, quoteRepository, milestoneRepository, responseCache, events, clock, cacheTTL)
	commentUsecase := usecase.NewCommentUsecase(commentRepository, gameRepository, clock)
	rosterUsecase := usecase.NewRosterUsecase(rosterRepository, nhlClient, responseCache, clock, cfg.Team.ID, cfg.Team.Name, loc)
	recapUsecase := usecase.NewRecapUsecase(gameRepository, nhlClient, responseCache, clock)
	monitoringUsecase := usecase.NewMonitoringUsecase(gameRepository, responseCache, clock)
	userUsecase := usecase.NewUserUsecase(userRepository)
	jobUsecase := usecase.NewJobUsecase(jobScheduler)

	if cfg.Scheduler.Enabled {
		jobScheduler.AddDaily(usecase.JobScheduleCheck, "Check finished games", cfg.Scheduler.ScheduleCheckHour, 0, func(ctx context.Context) error {
			_, err := pipelineUsecase.CheckUpcomingGames(ctx)
			return err
		})
		jobScheduler.AddHourly(usecase.JobVideoSweep, "Retry missing videos", 0, func(ctx context.Context) error {
			_, err := pipelineUsecase.SweepMissingVideos(ctx)
			return err
		})
		jobScheduler.AddDaily(usecase.JobRosterSync, "Sync roster", cfg.Scheduler.RosterSyncHour, 0, func(ctx context.Context) error {
			_, err := rosterUsecase.Sync(ctx)
			return err
		})
		jobScheduler.AddDaily(usecase.JobStandings, "Refresh standings", cfg.Scheduler.StandingsHour, 0, func(ctx context.Context) error {
			_, err := standingsUsecase.Refresh(ctx)
			return err
		})
		jobScheduler.Start(ctx)
	} else {
		logger.GetLogger().Info("Scheduler disabled, background jobs will not run")
	}

	router := server.InitiateRouter(
		cfg.App.FrontendURL,
		httpHandler.NewHealthHandler(monitoringUsecase),
		httpHandler.NewGameHandler(gameUsecase),
		httpHandler.NewCommentHandler(commentUsecase),
		httpHandler.NewProspectHandler(usecase.NewProspectUsecase()),
		httpHandler.NewRedditHandler(usecase.NewRedditUsecase(redditClient)),
		httpHandler.NewRosterHandler(rosterUsecase, standingsUsecase),
		httpHandler.NewRecapHandler(recapUsecase),
		httpHandler.NewMonitoringHandler(monitoringUsecase),
		httpHandler.NewAdminHandler(jobUsecase),
		httpHandler.NewUserHandler(userUsecase),
		gameHub.Serve,
		verifier,
		userUsecase,
	)

	app := cfg.App
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled, "environment": app.Environment}).Info("Starting application")
	g.Go(func() error {
		if app.TLSEnabled && app.TLSCertFile != "" && app.TLSKeyFile != "" {
			if err := httpServer.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		if app.TLSEnabled {
			logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("HTTP server shutdown incomplete")
	}
	jobScheduler.Stop()
	if pubsubPublisher != nil {
		pubsubPublisher.Stop()
	}
	if serviceBusSender != nil {
		serviceBusSender.Close(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
	logger.GetLogger().Info("Application stopped")
}
