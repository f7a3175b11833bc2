package servicebus

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/goccy/go-json"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
)

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// GameEventSender forwards game status events to a Service Bus queue.
type GameEventSender struct {
	sender messageSender
}

func NewGameEventSender(client *azservicebus.Client, queue string) (*GameEventSender, error) {
	sender, err := client.NewSender(queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return nil, err
	}
	return &GameEventSender{sender: sender}, nil
}

// BuildMessage renders event as a JSON message keyed by game and status.
func BuildMessage(event model.GameStatusEvent) (*azservicebus.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	contentType := "application/json"
	subject := "game." + string(event.To)
	messageID := fmt.Sprintf("%d:%s:%d", event.GameID, event.To, event.At.UnixNano())
	return &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		MessageID:   &messageID,
		ApplicationProperties: map[string]interface{}{
			"game_id": event.GameID,
			"from":    string(event.From),
			"to":      string(event.To),
		},
	}, nil
}

func (s *GameEventSender) PublishGameEvent(ctx context.Context, event model.GameStatusEvent) error {
	msg, err := BuildMessage(event)
	if err != nil {
		return err
	}
	if err := s.sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

func (s *GameEventSender) Close(ctx context.Context) {
	if err := s.sender.Close(ctx); err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while closing sender.")
	}
}

var _ repository.IGameEventPublisher = (*GameEventSender)(nil)
