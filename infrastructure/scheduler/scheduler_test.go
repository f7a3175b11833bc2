package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 1, 15, 7, 59, 0, 0, time.UTC)

func newTestScheduler(t *testing.T) (*Scheduler, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(base)
	s := New(clock, time.UTC)
	t.Cleanup(s.Stop)
	return s, clock
}

func TestTriggers(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	now := time.Date(2025, 1, 15, 10, 30, 0, 0, la)
	next, ok := daily{hour: 8, loc: la}.next(now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 16, 8, 0, 0, 0, la), next)

	next, _ = daily{hour: 11, loc: la}.next(now)
	assert.Equal(t, time.Date(2025, 1, 15, 11, 0, 0, 0, la), next)

	next, _ = hourly{minute: 0, loc: la}.next(now)
	assert.Equal(t, time.Date(2025, 1, 15, 11, 0, 0, 0, la), next)

	next, _ = hourly{minute: 0, loc: la}.next(time.Date(2025, 1, 15, 11, 0, 0, 0, la))
	assert.Equal(t, time.Date(2025, 1, 15, 12, 0, 0, 0, la), next)

	o := &once{at: now}
	next, ok = o.next(now)
	assert.True(t, ok)
	assert.Equal(t, now, next)
	_, ok = o.next(now)
	assert.False(t, ok)
}

func TestScheduleOnce_FiresAndIsRemoved(t *testing.T) {
	s, clock := newTestScheduler(t)
	var runs int32
	s.ScheduleOnce("game:1:immediate", "immediate", base.Add(30*time.Minute), func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	s.Start(context.Background())
	require.Len(t, s.Jobs(), 1)

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(29 * time.Minute)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(s.Jobs()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestScheduleOnce_ReplacesSameID(t *testing.T) {
	s, clock := newTestScheduler(t)
	s.Start(context.Background())

	var first, second int32
	s.ScheduleOnce("game:1:archive", "archive", base.Add(time.Hour), func(context.Context) error {
		atomic.AddInt32(&first, 1)
		return nil
	})
	s.ScheduleOnce("game:1:archive", "archive", base.Add(2*time.Hour), func(context.Context) error {
		atomic.AddInt32(&second, 1)
		return nil
	})
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, base.Add(2*time.Hour), jobs[0].NextRun)

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(2 * time.Hour)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&second) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first))
}

func TestScheduleOnce_PastTimeFiresImmediately(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.Start(context.Background())

	done := make(chan struct{})
	s.ScheduleOnce("late", "late", base.Add(-time.Hour), func(context.Context) error {
		close(done)
		return nil
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not fire")
	}
}

func TestRecurringJobKeepsRunningAfterFailureAndPanic(t *testing.T) {
	s, clock := newTestScheduler(t)
	var runs int32
	s.AddHourly("video_sweep", "video_sweep", 0, func(context.Context) error {
		switch atomic.AddInt32(&runs, 1) {
		case 1:
			return errors.New("boom")
		case 2:
			panic("kaboom")
		}
		return nil
	})
	s.Start(context.Background())

	for i := 1; i <= 3; i++ {
		require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
		clock.Advance(time.Hour)
		want := int32(i)
		require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == want }, time.Second, 5*time.Millisecond)
	}
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "hourly at :00", jobs[0].Kind)
}

func TestJobsAreSerialized(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.Start(context.Background())

	var active, peak int32
	var wg sync.WaitGroup
	wg.Add(3)
	for _, id := range []string{"a", "b", "c"} {
		s.ScheduleOnce(id, id, base, func(context.Context) error {
			defer wg.Done()
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return nil
		})
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestRunNow(t *testing.T) {
	s, _ := newTestScheduler(t)
	var ran bool
	s.AddDaily("roster_sync", "roster_sync", 4, 0, func(context.Context) error {
		ran = true
		return nil
	})

	require.NoError(t, s.RunNow(context.Background(), "roster_sync"))
	assert.True(t, ran)
	assert.ErrorIs(t, s.RunNow(context.Background(), "nope"), ErrUnknownJob)
}

func TestStop(t *testing.T) {
	s, clock := newTestScheduler(t)
	var runs int32
	s.Start(context.Background())

	s.ScheduleOnce("y", "y", base.Add(time.Minute), func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	s.Stop()
	clock.Advance(time.Hour)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))

	s.ScheduleOnce("z", "z", base, func(context.Context) error { return nil })
	assert.Len(t, s.Jobs(), 1)
}
