package service

import (
	"context"
	"encoding/json"

	"ai-policyassist-be/internal/dto"
	"ai-policyassist-be/internal/pkg/logger"
	"ai-policyassist-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the answered-turn topic into the operator log.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.TurnAnsweredMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal answered event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	event := events.BaseEvent{
		Type: events.TypeChatTurnAnswered,
		Data: map[string]interface{}{
			"user_id":         payload.UserId,
			"chat_session_id": payload.SessionNumber,
			"chat_id":         payload.TurnNumber,
		},
		OccurredAt: payload.AnsweredAt,
	}

	cs.logger.Info("consumer", event.EventType(), event.Payload())
	msg.Ack()
}
