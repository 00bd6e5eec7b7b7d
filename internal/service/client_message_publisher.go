package service

import (
	"context"
	"encoding/json"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// ClientMessageEvent is handed to the auto-reply worker after a client
// message has been stored.
type ClientMessageEvent struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	MessageId      uuid.UUID `json:"message_id"`
	ClientToken    string    `json:"client_token"`
	Content        string    `json:"content"`
}

type IClientMessagePublisher interface {
	PublishClientMessage(ctx context.Context, event ClientMessageEvent)
}

type clientMessagePublisher struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewClientMessagePublisher(pubSub *gochannel.GoChannel, log logger.ILogger) IClientMessagePublisher {
	return &clientMessagePublisher{pubSub: pubSub, logger: log}
}

func (p *clientMessagePublisher) PublishClientMessage(ctx context.Context, event ClientMessageEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("ClientMessagePublisher", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(constant.TopicClientMessages, msg); err != nil {
		p.logger.Error("ClientMessagePublisher", "Failed to publish client message", map[string]interface{}{"error": err.Error()})
	}
}
