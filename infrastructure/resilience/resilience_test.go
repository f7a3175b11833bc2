package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, Backoff: time.Second, Multiplier: 2, MaxBackoff: 5 * time.Second}
	assert.Equal(t, time.Duration(0), p.Delay(0))
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))
	assert.Equal(t, 5*time.Second, p.Delay(4))
	assert.Equal(t, time.Duration(0), Once.Delay(1))
}

func TestDo_StopsAtMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), clockwork.NewRealClock(), RetryPolicy{MaxAttempts: 3}, func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("upstream down")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), clockwork.NewRealClock(), RetryPolicy{MaxAttempts: 3}, func(ctx context.Context, attempt int) error {
		calls++
		if attempt < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentErrorIsNotRetried(t *testing.T) {
	calls := 0
	notFound := errors.New("not found")
	err := Do(context.Background(), clockwork.NewRealClock(), RetryPolicy{MaxAttempts: 3}, func(ctx context.Context, attempt int) error {
		calls++
		return Permanent(notFound)
	})
	assert.ErrorIs(t, err, notFound)
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, calls)
}

func TestDo_WaitsOnClockBetweenAttempts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	done := make(chan error, 1)
	calls := 0
	go func() {
		done <- Do(context.Background(), clock, RetryPolicy{MaxAttempts: 2, Backoff: time.Minute}, func(ctx context.Context, attempt int) error {
			calls++
			if attempt == 1 {
				return errors.New("transient")
			}
			return nil
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not resume after backoff")
	}
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, clockwork.NewFakeClock(), RetryPolicy{MaxAttempts: 3, Backoff: time.Hour}, func(ctx context.Context, attempt int) error {
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("test-breaker", time.Minute)
	failing := func() (int, error) { return 0, errors.New("boom") }
	for i := 0; i < 5; i++ {
		_, err := Execute(b, failing)
		require.Error(t, err)
	}
	assert.Equal(t, "open", b.State())

	_, err := Execute(b, func() (int, error) { return 1, nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreaker_PermanentErrorsDoNotTrip(t *testing.T) {
	b := NewBreaker("test-breaker-permanent", time.Minute)
	for i := 0; i < 10; i++ {
		_, err := Execute(b, func() (string, error) { return "", Permanent(errors.New("404")) })
		require.Error(t, err)
	}
	assert.Equal(t, "closed", b.State())

	v, err := Execute(b, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestLimiter(t *testing.T) {
	require.NoError(t, Wait(context.Background(), nil))
	require.NoError(t, Wait(context.Background(), NewLimiter(0)))
	require.NoError(t, Wait(context.Background(), NewLimiter(10)))
}
