package realtime

import (
	"context"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
)

// Fanout delivers each event to every sink. Sink failures are logged and never returned.
type Fanout struct {
	sinks []repository.IGameEventPublisher
}

func NewFanout(sinks ...repository.IGameEventPublisher) *Fanout {
	out := make([]repository.IGameEventPublisher, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Fanout{sinks: out}
}

func (f *Fanout) PublishGameEvent(ctx context.Context, event model.GameStatusEvent) error {
	for _, s := range f.sinks {
		if err := s.PublishGameEvent(ctx, event); err != nil {
			logger.GetLogger().
				WithField("error", err).
				WithField("gameId", event.GameID).
				WithField("sink", sinkName(s)).
				Warn("Game event publish failed")
		}
	}
	return nil
}

func sinkName(s repository.IGameEventPublisher) string {
	switch s.(type) {
	case *GameHub:
		return "sse"
	default:
		return "external"
	}
}

var _ repository.IGameEventPublisher = (*Fanout)(nil)
