package resilience

import (
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/infrastructure/metrics"
)

// Breaker guards calls to one upstream service.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// NewBreaker opens after five consecutive failures and probes again after timeout.
func NewBreaker(name string, timeout time.Duration) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// caller mistakes such as 404s do not count against the upstream
			return err == nil || errors.Is(err, ErrPermanent)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.GetLogger().WithFields(map[string]interface{}{
				"breaker": name,
				"from":    stateToString(from),
				"to":      stateToString(to),
			}).Warn("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return &Breaker{cb: cb, name: name}
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() string { return stateToString(b.cb.State()) }

// Execute runs fn through the breaker. A rejected call returns gobreaker.ErrOpenState.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn()
	}
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	metrics.RecordUpstream(b.name, err)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %s: unexpected result type %T", b.name, result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
