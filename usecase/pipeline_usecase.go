package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/clients/nhl"
	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/infrastructure/metrics"
	"nhl-fan-insights/infrastructure/resilience"
)

type IPipelineUsecase interface {
	// CheckUpcomingGames syncs the team schedule and queues the post-game stages of every
	// finished game not yet processed. It returns the number of games queued.
	CheckUpcomingGames(ctx context.Context) (int, error)
	// SweepMissingVideos retries video enrichment for finished games without videos and
	// returns the number of videos stored.
	SweepMissingVideos(ctx context.Context) (int, error)
	SchedulePostGame(gameID int64, gameEnd time.Time)
	RunStage(ctx context.Context, gameID int64, stage Stage) error

	ProcessImmediate(ctx context.Context, gameID int64) error
	ProcessDetailedStats(ctx context.Context, gameID int64) error
	ProcessReddit(ctx context.Context, gameID int64) error
	ProcessVideosAndRecap(ctx context.Context, gameID int64) error
	ProcessQuotes(ctx context.Context, gameID int64) error
	Archive(ctx context.Context, gameID int64) error
}

type PipelineConfig struct {
	TeamID            string
	Location          *time.Location
	CriticalRetry     resilience.RetryPolicy
	OtherVideoResults int64
}

// StandingsSource supplies the latest division snapshot for recap context.
type StandingsSource interface {
	Snapshot(ctx context.Context) (*model.StandingsSnapshot, error)
}

// PipelineDeps groups the collaborators of the pipeline. Highlights, Recap, Reddit,
// Standings, Cache, Events and Scheduler are optional.
type PipelineDeps struct {
	Games      repository.IGame
	Videos     repository.IVideo
	NHL        repository.INHL
	Highlights repository.IHighlightSearch
	Recap      repository.IRecapGenerator
	Reddit     repository.IReddit
	Standings  StandingsSource
	Cache      repository.ICache
	Events     repository.IGameEventPublisher
	Scheduler  JobScheduler
	Clock      clockwork.Clock
}

type pipelineUsecase struct {
	PipelineDeps
	cfg PipelineConfig
}

func NewPipelineUsecase(deps PipelineDeps, cfg PipelineConfig) IPipelineUsecase {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CriticalRetry.MaxAttempts == 0 {
		cfg.CriticalRetry = DefaultCriticalRetry
	}
	if cfg.OtherVideoResults == 0 {
		cfg.OtherVideoResults = 5
	}
	return &pipelineUsecase{PipelineDeps: deps, cfg: cfg}
}

func (p *pipelineUsecase) CheckUpcomingGames(ctx context.Context) (int, error) {
	now := p.Clock.Now()
	local := now.In(p.cfg.Location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.cfg.Location)

	schedule, err := p.NHL.FetchTeamSchedule(ctx, p.cfg.TeamID, today)
	if err != nil {
		return 0, fmt.Errorf("fetch schedule: %w", err)
	}

	scheduled := 0
	for _, sg := range schedule {
		kickoff, err := sg.Kickoff()
		if err != nil {
			logger.GetLogger().WithField("gameId", sg.ID).WithField("error", err).Warn("Skipping game with unparseable date")
			continue
		}
		game, err := p.findOrCreate(ctx, sg, kickoff)
		if err != nil {
			return scheduled, err
		}

		switch sg.GameState {
		case "LIVE", "CRIT":
			if game.Status.Rank() < model.GameStatusLive.Rank() {
				from := game.Status
				game.SetStatus(model.GameStatusLive, now)
				if err := p.save(ctx, game); err != nil {
					return scheduled, err
				}
				p.emit(ctx, game, from, "")
			}
		case "FINAL", "OFF":
			if game.Status == model.GameStatusArchived || game.BasicStatsFetched {
				continue
			}
			end := kickoff.Add(EstimatedGameLength)
			if end.Before(now) {
				end = now
			}
			p.SchedulePostGame(game.GameID, end)
			scheduled++

			from := game.Status
			game.SetStatus(model.GameStatusFinal, now)
			if err := p.save(ctx, game); err != nil {
				return scheduled, err
			}
			p.emit(ctx, game, from, "")
		}
	}

	logger.GetLogger().
		WithField("games", len(schedule)).
		WithField("scheduled", scheduled).
		Info("Schedule check finished")
	return scheduled, nil
}

func (p *pipelineUsecase) findOrCreate(ctx context.Context, sg dto.NHLScheduleGame, kickoff time.Time) (*model.Game, error) {
	game, err := p.Games.GetByID(ctx, sg.ID)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("load game %d: %w", sg.ID, err)
	}

	status := model.GameStatus(sg.GameState)
	if sg.GameState == "FUT" || sg.GameState == "" {
		status = model.GameStatusScheduled
	}
	game = &model.Game{
		GameID:      sg.ID,
		GameDateUTC: kickoff,
		Status:      status,
		HomeTeam:    sg.HomeTeam.Abbrev,
		AwayTeam:    sg.AwayTeam.Abbrev,
		Scorers:     []string{},
	}
	if err := p.Games.Create(ctx, game); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return p.Games.GetByID(ctx, sg.ID)
		}
		return nil, fmt.Errorf("create game %d: %w", sg.ID, err)
	}
	invalidateGame(ctx, p.Cache, game.GameID)
	logger.GetLogger().
		WithField("gameId", game.GameID).
		WithField("matchup", game.AwayTeam+" @ "+game.HomeTeam).
		Info("Created game record")
	return game, nil
}

func (p *pipelineUsecase) SchedulePostGame(gameID int64, gameEnd time.Time) {
	if p.Scheduler == nil {
		return
	}
	for _, entry := range PostGameStages {
		stage := entry.Stage
		p.Scheduler.ScheduleOnce(
			fmt.Sprintf("game:%d:%s", gameID, stage),
			string(stage),
			gameEnd.Add(entry.Offset),
			func(ctx context.Context) error { return p.RunStage(ctx, gameID, stage) },
		)
	}
	logger.GetLogger().WithField("gameId", gameID).WithField("gameEnd", gameEnd).Info("Post-game stages scheduled")
}

func (p *pipelineUsecase) RunStage(ctx context.Context, gameID int64, stage Stage) error {
	entry, ok := lookupStage(stage)
	if !ok {
		return fmt.Errorf("unknown stage %q: %w", stage, model.ErrInvalidInput)
	}
	fn := p.stageFunc(stage)
	policy := resilience.Once
	if entry.Critical {
		policy = p.cfg.CriticalRetry
	}

	log := logger.GetLogger().WithField("gameId", gameID).WithField("stage", stage)
	start := p.Clock.Now()
	err := resilience.Do(ctx, p.Clock, policy, func(ctx context.Context, attempt int) error {
		err := fn(ctx, gameID)
		if err != nil && attempt < policy.MaxAttempts {
			log.WithField("attempt", attempt).WithField("error", err).Warn("Stage attempt failed, retrying")
		}
		return err
	})
	metrics.RecordStage(string(stage), p.Clock.Since(start), err)
	if err == nil {
		return nil
	}
	if entry.Critical {
		return fmt.Errorf("stage %s for game %d: %w", stage, gameID, err)
	}
	log.WithField("error", err).Warn("Stage failed, flag left unset")
	return nil
}

func (p *pipelineUsecase) stageFunc(stage Stage) func(context.Context, int64) error {
	switch stage {
	case StageImmediate:
		return p.ProcessImmediate
	case StageDetailedStats:
		return p.ProcessDetailedStats
	case StageReddit:
		return p.ProcessReddit
	case StageVideosRecap:
		return p.ProcessVideosAndRecap
	case StageQuotes:
		return p.ProcessQuotes
	default:
		return p.Archive
	}
}

// ProcessImmediate stores the final score, scorers and boxscore snapshot.
func (p *pipelineUsecase) ProcessImmediate(ctx context.Context, gameID int64) error {
	game, err := p.load(ctx, gameID)
	if game == nil {
		return err
	}
	if game.BasicStatsFetched {
		logger.GetLogger().WithField("gameId", gameID).Debug("Basic stats already fetched")
		return nil
	}

	box, raw, err := p.NHL.FetchBoxscore(ctx, gameID)
	if err != nil {
		return fmt.Errorf("fetch boxscore: %w", err)
	}
	homeScore, awayScore := box.HomeTeam.Score, box.AwayTeam.Score
	game.AwayTeam = box.AwayTeam.Abbrev
	game.HomeTeam = box.HomeTeam.Abbrev
	game.HomeScore = &homeScore
	game.AwayScore = &awayScore
	game.Scorers = nhl.Scorers(box)
	payload := game.Payload()
	payload.Boxscore = raw
	payload.TopPerformers = nhl.TopPerformers(box)
	game.BasicStatsFetched = true

	from := game.Status
	game.SetStatus(model.GameStatusFinal, p.Clock.Now())
	if err := p.save(ctx, game); err != nil {
		return err
	}
	p.emit(ctx, game, from, StageImmediate)
	logger.GetLogger().
		WithField("gameId", gameID).
		WithField("score", fmt.Sprintf("%s %d @ %s %d", game.AwayTeam, awayScore, game.HomeTeam, homeScore)).
		Info("Basic stats stored")
	return nil
}

// ProcessDetailedStats merges the play-by-play goal list into the payload.
func (p *pipelineUsecase) ProcessDetailedStats(ctx context.Context, gameID int64) error {
	game, err := p.load(ctx, gameID)
	if game == nil {
		return err
	}
	pbp, err := p.NHL.FetchPlayByPlay(ctx, gameID)
	if err != nil {
		return fmt.Errorf("fetch play-by-play: %w", err)
	}
	goals := nhl.Goals(pbp)
	game.Payload().Goals = goals
	if err := p.save(ctx, game); err != nil {
		return err
	}
	logger.GetLogger().WithField("gameId", gameID).WithField("goals", len(goals)).Info("Goal details stored")
	return nil
}

// ProcessReddit records the game thread id. A missing thread still marks the stage done.
func (p *pipelineUsecase) ProcessReddit(ctx context.Context, gameID int64) error {
	game, err := p.load(ctx, gameID)
	if game == nil {
		return err
	}
	if game.RedditFetched {
		return nil
	}
	if p.Reddit != nil {
		thread, err := p.Reddit.FindGameThread(ctx, game.AwayTeam, game.HomeTeam, p.localDate(game))
		if err != nil {
			return fmt.Errorf("find game thread: %w", err)
		}
		if thread != nil {
			game.Payload().RedditThreadID = thread.Data.ID
		}
	}
	game.RedditFetched = true
	if err := p.save(ctx, game); err != nil {
		return err
	}
	logger.GetLogger().WithField("gameId", gameID).Info("Reddit stage finished")
	return nil
}

// ProcessVideosAndRecap stores highlight videos, writes the recap and completes the game.
func (p *pipelineUsecase) ProcessVideosAndRecap(ctx context.Context, gameID int64) error {
	game, err := p.load(ctx, gameID)
	if game == nil {
		return err
	}
	added, err := p.enrichVideos(ctx, game)
	if err != nil {
		return err
	}
	game.VideosFetched = true

	if p.Standings != nil {
		if snap, err := p.Standings.Snapshot(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Standings unavailable for recap")
		} else {
			game.StandingsSnapshot = snap
		}
	}
	if next, err := p.Games.NextScheduled(ctx, p.cfg.TeamID, game.GameDateUTC); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Next game lookup failed")
	} else if next != nil {
		opponent := next.HomeTeam
		if opponent == p.cfg.TeamID {
			opponent = next.AwayTeam
		}
		nextDate := next.GameDateUTC
		game.NextOpponent = &opponent
		game.NextGameDate = &nextDate
	}

	recap := p.generateRecap(ctx, game)
	game.SummaryLine = &recap.SummaryLine
	game.RecapText = &recap.RecapText
	game.NextGameStoryline = recap.NextGameStoryline
	game.RecapGenerated = true

	from := game.Status
	game.SetStatus(model.GameStatusComplete, p.Clock.Now())
	if err := p.save(ctx, game); err != nil {
		return err
	}
	p.emit(ctx, game, from, StageVideosRecap)
	logger.GetLogger().
		WithField("gameId", gameID).
		WithField("videosAdded", added).
		WithField("summary", recap.SummaryLine).
		Info("Videos and recap stored")
	return nil
}

// ProcessQuotes only marks the flag until a quote source exists.
func (p *pipelineUsecase) ProcessQuotes(ctx context.Context, gameID int64) error {
	game, err := p.load(ctx, gameID)
	if game == nil {
		return err
	}
	if game.QuotesFetched {
		return nil
	}
	game.QuotesFetched = true
	return p.save(ctx, game)
}

// Archive retries video enrichment once when it never succeeded, then archives the game
// whatever the outcome of that retry.
func (p *pipelineUsecase) Archive(ctx context.Context, gameID int64) error {
	game, err := p.load(ctx, gameID)
	if game == nil {
		return err
	}
	if !game.VideosFetched {
		logger.GetLogger().WithField("gameId", gameID).Info("Videos missing at archive time, retrying once")
		if err := p.ProcessVideosAndRecap(ctx, gameID); err != nil {
			logger.GetLogger().WithField("gameId", gameID).WithField("error", err).Warn("Archive video retry failed")
		}
		if game, err = p.load(ctx, gameID); game == nil {
			return err
		}
	}

	from := game.Status
	if !game.SetStatus(model.GameStatusArchived, p.Clock.Now()) {
		return nil
	}
	if err := p.save(ctx, game); err != nil {
		return err
	}
	p.emit(ctx, game, from, StageArchive)
	logger.GetLogger().WithField("gameId", gameID).Info("Game archived")
	return nil
}

func (p *pipelineUsecase) SweepMissingVideos(ctx context.Context) (int, error) {
	games, err := p.Games.ListMissingVideos(ctx, []model.GameStatus{model.GameStatusFinal, model.GameStatusOff})
	if err != nil {
		return 0, fmt.Errorf("list games missing videos: %w", err)
	}
	if len(games) == 0 {
		logger.GetLogger().Info("No games need video processing")
		return 0, nil
	}

	total := 0
	for i := range games {
		game := &games[i]
		added, err := p.enrichVideos(ctx, game)
		if err != nil {
			logger.GetLogger().WithField("gameId", game.GameID).WithField("error", err).Error("Video sweep failed for game")
			continue
		}
		game.VideosFetched = true
		if err := p.save(ctx, game); err != nil {
			logger.GetLogger().WithField("gameId", game.GameID).WithField("error", err).Error("Video sweep save failed")
			continue
		}
		total += added
	}
	logger.GetLogger().WithField("games", len(games)).WithField("videosAdded", total).Info("Video sweep finished")
	return total, nil
}

func (p *pipelineUsecase) enrichVideos(ctx context.Context, game *model.Game) (int, error) {
	if p.Highlights == nil {
		logger.GetLogger().WithField("gameId", game.GameID).Info("Highlight search not configured, no videos to store")
		return 0, nil
	}
	number, err := p.Games.CountTeamGamesThrough(ctx, p.cfg.TeamID, game.GameDateUTC, game.GameID)
	if err != nil {
		return 0, fmt.Errorf("count season games: %w", err)
	}
	res, err := p.Highlights.SearchGameHighlights(ctx, dto.HighlightSearchRequest{
		AwayTeam:   game.AwayTeam,
		HomeTeam:   game.HomeTeam,
		GameDate:   p.localDate(game),
		GameNumber: number,
		MaxResults: p.cfg.OtherVideoResults,
	})
	if err != nil {
		return 0, fmt.Errorf("search highlights: %w", err)
	}

	// uncategorized results are not stored
	var picks []videoPick
	if res.NHLOfficial != nil {
		picks = append(picks, videoPick{video: *res.NHLOfficial, kind: model.VideoTypeNHLOfficial, defaultChannel: "NHL"})
	}
	if res.ProfessorHockey != nil {
		picks = append(picks, videoPick{video: *res.ProfessorHockey, kind: model.VideoTypeProfessorHockey, defaultChannel: "Professor Hockey"})
	}
	picks = append(picks, p.goalClips(ctx, game)...)

	added := 0
	for _, pk := range picks {
		ok, err := p.storeVideo(ctx, game.GameID, pk)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

type videoPick struct {
	video          dto.YouTubeVideo
	kind           model.VideoType
	defaultChannel string
	goal           *model.Goal
}

// goalClips looks up one clip per recorded goal. A failed lookup skips that goal.
func (p *pipelineUsecase) goalClips(ctx context.Context, game *model.Game) []videoPick {
	if game.Raw == nil {
		return nil
	}
	var picks []videoPick
	for i := range game.Raw.Goals {
		goal := game.Raw.Goals[i]
		if goal.Scorer == "" {
			continue
		}
		team := goal.Team
		if team == "" {
			team = p.cfg.TeamID
		}
		clips, err := p.Highlights.SearchGoalClip(ctx, dto.GoalClipRequest{
			ScorerName: goal.Scorer,
			TeamName:   team,
			GameDate:   p.localDate(game),
			MaxResults: 1,
		})
		if err != nil {
			logger.GetLogger().WithField("gameId", game.GameID).WithField("scorer", goal.Scorer).WithField("error", err).Warn("Goal clip search failed")
			continue
		}
		if len(clips) == 0 {
			continue
		}
		picks = append(picks, videoPick{video: clips[0], kind: model.VideoTypeGoalHighlight, goal: &goal})
	}
	return picks
}

func (p *pipelineUsecase) storeVideo(ctx context.Context, gameID int64, pk videoPick) (bool, error) {
	v, kind := pk.video, pk.kind
	defaultChannel := pk.defaultChannel
	exists, err := p.Videos.Exists(ctx, gameID, v.YouTubeID)
	if err != nil {
		return false, fmt.Errorf("check video %s: %w", v.YouTubeID, err)
	}
	if exists {
		return false, nil
	}
	channel := v.ChannelName
	if channel == "" {
		channel = defaultChannel
	}
	video := &model.Video{
		GameID:      gameID,
		YouTubeID:   v.YouTubeID,
		Title:       v.Title,
		VideoType:   kind,
		PublishedAt: v.PublishedAt,
	}
	if channel != "" {
		video.ChannelName = &channel
	}
	if v.ThumbnailURL != "" {
		thumb := v.ThumbnailURL
		video.ThumbnailURL = &thumb
	}
	if pk.goal != nil {
		goalTime := fmt.Sprintf("P%d %s", pk.goal.Period, pk.goal.Time)
		scorer := pk.goal.Scorer
		video.GoalTime = &goalTime
		video.ScorerName = &scorer
	}
	created, err := p.Videos.Create(ctx, video)
	if err != nil {
		return false, fmt.Errorf("store video %s: %w", v.YouTubeID, err)
	}
	if created {
		metrics.VideosStored.WithLabelValues(string(kind)).Inc()
		logger.GetLogger().WithField("gameId", gameID).WithField("videoType", kind).WithField("youtubeId", v.YouTubeID).Info("Video stored")
	}
	return created, nil
}

func (p *pipelineUsecase) generateRecap(ctx context.Context, game *model.Game) dto.RecapResult {
	req := dto.RecapRequest{
		GameID:       game.GameID,
		HomeTeam:     game.HomeTeam,
		AwayTeam:     game.AwayTeam,
		HomeScore:    model.ScoreOf(game.HomeScore),
		AwayScore:    model.ScoreOf(game.AwayScore),
		GameDate:     p.localDate(game),
		Standings:    game.StandingsSnapshot,
		NextGameDate: game.NextGameDate,
	}
	if game.Raw != nil {
		req.Goals = game.Raw.Goals
		req.TopPerformers = game.Raw.TopPerformers
	}
	if game.NextOpponent != nil {
		req.NextOpponent = *game.NextOpponent
	}

	if p.Recap != nil {
		res, err := p.Recap.GenerateRecap(ctx, req)
		if err == nil && res != nil {
			return *res
		}
		if !errors.Is(err, model.ErrNotConfigured) {
			logger.GetLogger().WithField("gameId", game.GameID).WithField("error", err).Warn("Recap generation failed, using template")
		}
	}
	return FallbackRecap(req)
}

// load returns (nil, nil) for an unknown game so stages treat it as nothing to do.
func (p *pipelineUsecase) load(ctx context.Context, gameID int64) (*model.Game, error) {
	game, err := p.Games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.GetLogger().WithField("gameId", gameID).Error("Game not found")
			return nil, nil
		}
		return nil, fmt.Errorf("load game %d: %w", gameID, err)
	}
	return game, nil
}

func (p *pipelineUsecase) save(ctx context.Context, game *model.Game) error {
	if err := p.Games.Save(ctx, game); err != nil {
		return fmt.Errorf("save game %d: %w", game.GameID, err)
	}
	invalidateGame(ctx, p.Cache, game.GameID)
	return nil
}

func (p *pipelineUsecase) emit(ctx context.Context, game *model.Game, from model.GameStatus, stage Stage) {
	if p.Events == nil || from == game.Status {
		return
	}
	event := model.GameStatusEvent{GameID: game.GameID, From: from, To: game.Status, Stage: string(stage), At: p.Clock.Now()}
	if game.StatusUpdatedAt != nil {
		event.At = *game.StatusUpdatedAt
	}
	if err := p.Events.PublishGameEvent(ctx, event); err != nil {
		logger.GetLogger().WithField("gameId", game.GameID).WithField("error", err).Warn("Game event publish failed")
	}
}

func (p *pipelineUsecase) localDate(game *model.Game) time.Time {
	return game.GameDateUTC.In(p.cfg.Location)
}
