package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"nhl-fan-insights/domain/dto"
	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/infrastructure/metrics"
)

// JobFunc is the unit of work a trigger runs.
type JobFunc func(ctx context.Context) error

type job struct {
	id      string
	name    string
	trigger trigger
	next    time.Time
	fn      JobFunc
	stop    chan struct{}
}

// Scheduler runs hourly, daily and one-off jobs on a clockwork clock. Jobs never overlap.
type Scheduler struct {
	clock clockwork.Clock
	loc   *time.Location

	run sync.Mutex

	mu      sync.Mutex
	jobs    map[string]*job
	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(clock clockwork.Clock, loc *time.Location) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{clock: clock, loc: loc, jobs: make(map[string]*job)}
}

// AddHourly runs fn every hour at the given minute.
func (s *Scheduler) AddHourly(id, name string, minute int, fn JobFunc) {
	s.add(&job{id: id, name: name, trigger: hourly{minute: minute, loc: s.loc}, fn: fn})
}

// AddDaily runs fn every day at hour:minute in the scheduler's timezone.
func (s *Scheduler) AddDaily(id, name string, hour, minute int, fn JobFunc) {
	s.add(&job{id: id, name: name, trigger: daily{hour: hour, minute: minute, loc: s.loc}, fn: fn})
}

// ScheduleOnce runs fn at the given time, replacing any job already registered under id. A
// time in the past fires immediately.
func (s *Scheduler) ScheduleOnce(id, name string, at time.Time, fn func(ctx context.Context) error) {
	s.add(&job{id: id, name: name, trigger: &once{at: at}, fn: fn})
}

func (s *Scheduler) add(j *job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if old, ok := s.jobs[j.id]; ok {
		s.disarm(old)
		logger.GetLogger().WithField("jobId", j.id).Debug("Replacing scheduled job")
	}
	next, ok := j.trigger.next(s.clock.Now())
	if !ok {
		delete(s.jobs, j.id)
		return
	}
	j.next = next
	s.jobs[j.id] = j
	if s.started {
		s.arm(j)
	}
	metrics.SchedulerPendingJobs.Set(float64(len(s.jobs)))
}

// Start arms every registered job. Jobs added later are armed as they arrive.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	for _, j := range s.jobs {
		s.arm(j)
	}
	logger.GetLogger().WithField("jobs", len(s.jobs)).WithField("timezone", s.loc.String()).Info("Scheduler started")
}

// Stop cancels all timers and waits for the running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for _, j := range s.jobs {
		s.disarm(j)
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
	logger.GetLogger().Info("Scheduler stopped")
}

// Jobs lists pending jobs ordered by next run time.
func (s *Scheduler) Jobs() []dto.ScheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.ScheduledJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, dto.ScheduledJob{ID: j.id, Name: j.name, Kind: j.trigger.String(), NextRun: j.next})
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].NextRun.Equal(out[k].NextRun) {
			return out[i].ID < out[k].ID
		}
		return out[i].NextRun.Before(out[k].NextRun)
	})
	return out
}

// RunNow executes a registered job synchronously, waiting for any job in progress.
func (s *Scheduler) RunNow(ctx context.Context, id string) error {
	s.mu.Lock()
	j, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q: %w", id, ErrUnknownJob)
	}
	return s.execute(ctx, j)
}

// arm must be called with mu held.
func (s *Scheduler) arm(j *job) {
	d := j.next.Sub(s.clock.Now())
	if d < 0 {
		d = 0
	}
	timer := s.clock.NewTimer(d)
	stop := make(chan struct{})
	j.stop = stop
	ctx := s.ctx

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-timer.Chan():
			s.fire(j)
		case <-stop:
			timer.Stop()
		case <-ctx.Done():
			timer.Stop()
		}
	}()
}

// disarm must be called with mu held.
func (s *Scheduler) disarm(j *job) {
	if j.stop != nil {
		close(j.stop)
		j.stop = nil
	}
}

func (s *Scheduler) fire(j *job) {
	s.mu.Lock()
	if s.stopped || s.jobs[j.id] != j {
		s.mu.Unlock()
		return
	}
	j.stop = nil
	if next, ok := j.trigger.next(s.clock.Now()); ok {
		j.next = next
		s.arm(j)
	} else {
		delete(s.jobs, j.id)
	}
	metrics.SchedulerPendingJobs.Set(float64(len(s.jobs)))
	ctx := s.ctx
	s.mu.Unlock()

	_ = s.execute(ctx, j)
}

func (s *Scheduler) execute(ctx context.Context, j *job) (err error) {
	s.run.Lock()
	defer s.run.Unlock()

	log := logger.GetLogger().WithField("jobId", j.id).WithField("job", j.name)
	start := s.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
		metrics.RecordJob(j.name, err)
		if err != nil {
			log.WithField("error", err).Error("Scheduled job failed")
			return
		}
		log.WithField("duration", s.clock.Since(start).String()).Info("Scheduled job finished")
	}()
	log.Info("Running scheduled job")
	return j.fn(ctx)
}
