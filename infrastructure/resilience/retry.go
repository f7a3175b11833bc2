package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// RetryPolicy bounds how often a failing operation is attempted.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Multiplier  float64
	MaxBackoff  time.Duration
}

// Once runs an operation a single time.
var Once = RetryPolicy{MaxAttempts: 1}

// ErrPermanent marks an error that must not be retried.
var ErrPermanent = errors.New("permanent failure")

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() []error {
	return []error{e.err, ErrPermanent}
}

// Permanent wraps err so Do stops retrying and returns it unchanged in meaning.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// Delay returns the wait before the given retry (1 = after the first failure).
func (p RetryPolicy) Delay(retry int) time.Duration {
	if p.Backoff <= 0 || retry < 1 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.Backoff)
	for i := 1; i < retry; i++ {
		d *= mult
		if p.MaxBackoff > 0 && time.Duration(d) >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	return time.Duration(d)
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Do runs fn until it succeeds, returns a permanent error, the context ends, or the attempts
// are used up. The last error is returned.
func Do(ctx context.Context, clock clockwork.Clock, policy RetryPolicy, fn func(ctx context.Context, attempt int) error) error {
	var err error
	for attempt := 1; attempt <= policy.attempts(); attempt++ {
		if err = fn(ctx, attempt); err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) || attempt == policy.attempts() {
			return err
		}
		if wait := policy.Delay(attempt); wait > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-clock.After(wait):
			}
		} else if ctx.Err() != nil {
			return errors.Join(err, ctx.Err())
		}
	}
	return err
}
