package usecase

import (
	"context"
	"time"

	"nhl-fan-insights/infrastructure/resilience"
)

type Stage string

const (
	StageImmediate     Stage = "immediate"
	StageDetailedStats Stage = "detailed_stats"
	StageReddit        Stage = "reddit"
	StageVideosRecap   Stage = "videos_recap"
	StageQuotes        Stage = "quotes"
	StageArchive       Stage = "archive"
)

// EstimatedGameLength is added to kickoff to guess when a game ended.
const EstimatedGameLength = 2*time.Hour + 30*time.Minute

// StageEntry is one row of the post-game schedule.
type StageEntry struct {
	Stage    Stage
	Offset   time.Duration
	Critical bool
}

// PostGameStages lists the stages in execution order with their offset from the game end.
var PostGameStages = []StageEntry{
	{Stage: StageImmediate, Offset: 0, Critical: true},
	{Stage: StageDetailedStats, Offset: 30 * time.Minute},
	{Stage: StageReddit, Offset: 2 * time.Hour},
	{Stage: StageVideosRecap, Offset: 4 * time.Hour, Critical: true},
	{Stage: StageQuotes, Offset: 12 * time.Hour},
	{Stage: StageArchive, Offset: 24 * time.Hour},
}

// DefaultCriticalRetry applies to immediate and videos_recap.
var DefaultCriticalRetry = resilience.RetryPolicy{
	MaxAttempts: 3,
	Backoff:     30 * time.Second,
	Multiplier:  2,
	MaxBackoff:  5 * time.Minute,
}

// JobScheduler is the slice of the scheduler the pipeline needs to queue per-game stages.
type JobScheduler interface {
	ScheduleOnce(id, name string, at time.Time, fn func(ctx context.Context) error)
}

func lookupStage(stage Stage) (StageEntry, bool) {
	for _, s := range PostGameStages {
		if s.Stage == stage {
			return s, true
		}
	}
	return StageEntry{}, false
}
