package pubsub

import (
	"context"
	"strconv"

	"cloud.google.com/go/pubsub"
	"github.com/goccy/go-json"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
)

// GameEventPublisher forwards game status events to a Pub/Sub topic.
type GameEventPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewGameEventPublisher opens topicName, creating it when it does not exist.
func NewGameEventPublisher(ctx context.Context, client *pubsub.Client, topicName string) (*GameEventPublisher, error) {
	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic doesn't exist - creating it")
		if topic, err = client.CreateTopic(ctx, topicName); err != nil {
			return nil, err
		}
	}
	return &GameEventPublisher{client: client, topic: topic}, nil
}

func (p *GameEventPublisher) PublishGameEvent(ctx context.Context, event model.GameStatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"game_id": strconv.FormatInt(event.GameID, 10),
			"status":  string(event.To),
		},
	}
	serverID, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("serverId", serverID).WithField("gameId", event.GameID).Debug("Game event published")
	return nil
}

// Stop flushes pending messages.
func (p *GameEventPublisher) Stop() {
	p.topic.Stop()
}

var _ repository.IGameEventPublisher = (*GameEventPublisher)(nil)
