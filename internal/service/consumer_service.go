package service

import (
	"context"
	"encoding/json"

	"discussly-be/internal/constant"
	"discussly-be/internal/dto"
	"discussly-be/internal/pkg/logger"
	ws "discussly-be/internal/websocket"
	"discussly-be/pkg/events"
	pktNats "discussly-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains lifecycle transitions off the in-process bus,
// tells live room members their discussion closed, and forwards the domain
// event to NATS for external consumers.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	hub            *ws.Hub
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	hub *ws.Hub,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		hub:            hub,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, constant.LifecycleTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.LifecycleTransitionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal transition", map[string]interface{}{"error": err})
		msg.Ack() // invalid payloads are not retriable
		return
	}

	// Members still connected to an expired room learn about the close
	// without having to issue another request.
	cs.hub.Broadcast(payload.DiscussionId, ws.NewDiscussionClosed(payload.DiscussionId))

	if cs.eventPublisher != nil {
		var event events.Event
		switch payload.Transition {
		case constant.TransitionPurged:
			event = events.NewDiscussionPurged(payload.DiscussionId)
		default:
			event = events.NewDiscussionClosed(payload.DiscussionId)
		}
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward lifecycle event", map[string]interface{}{
				"error":         err,
				"discussion_id": payload.DiscussionId,
			})
		}
	}

	msg.Ack()
}
