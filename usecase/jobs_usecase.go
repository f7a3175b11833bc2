package usecase

import (
	"context"
	"fmt"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/domain/model"
)

// Recurring job ids registered at startup.
const (
	JobScheduleCheck = "schedule_check"
	JobVideoSweep    = "video_sweep"
	JobRosterSync    = "roster_sync"
	JobStandings     = "standings"
)

var manualJobs = map[string]bool{
	JobScheduleCheck: true,
	JobVideoSweep:    true,
	JobRosterSync:    true,
	JobStandings:     true,
}

// JobRunner is the admin view of the scheduler.
type JobRunner interface {
	Jobs() []dto.ScheduledJob
	RunNow(ctx context.Context, id string) error
}

type IJobUsecase interface {
	List() []dto.ScheduledJob
	Run(ctx context.Context, job string) error
}

type jobUsecase struct {
	runner JobRunner
}

func NewJobUsecase(runner JobRunner) IJobUsecase {
	return &jobUsecase{runner: runner}
}

func (u *jobUsecase) List() []dto.ScheduledJob {
	if u.runner == nil {
		return []dto.ScheduledJob{}
	}
	return u.runner.Jobs()
}

func (u *jobUsecase) Run(ctx context.Context, job string) error {
	if !manualJobs[job] {
		return fmt.Errorf("job %q: %w", job, model.ErrNotFound)
	}
	if u.runner == nil {
		return fmt.Errorf("scheduler: %w", model.ErrNotConfigured)
	}
	return u.runner.RunNow(ctx, job)
}
