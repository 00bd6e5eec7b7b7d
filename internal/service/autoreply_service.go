package service

import (
	"context"
	"encoding/json"
	"log"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/repository/specification"
	"redoma-support-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const autoReplyText = "Recebemos sua mensagem! Um atendente vai te responder em breve."

// autoReplyAgentName labels the canned acknowledgement in the thread.
const autoReplyAgentName = "Redoma"

type IAutoReplyService interface {
	Consume(ctx context.Context) error
}

// autoReplyService answers the first client message of a conversation with
// an immediate acknowledgement, so the client sees a response on the very
// next fetch.
type autoReplyService struct {
	pubSub         *gochannel.GoChannel
	uowFactory     unitofwork.RepositoryFactory
	messageService IMessageService
}

func NewAutoReplyService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	messageService IMessageService,
) IAutoReplyService {
	return &autoReplyService{
		pubSub:         pubSub,
		uowFactory:     uowFactory,
		messageService: messageService,
	}
}

func (s *autoReplyService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, constant.TopicClientMessages)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *autoReplyService) processMessage(ctx context.Context, msg *message.Message) {
	var event ClientMessageEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		log.Printf("[ERROR] Failed to unmarshal client message event: %v", err)
		msg.Ack()
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: event.ConversationId})
	if err != nil {
		log.Printf("[ERROR] Failed to load conversation %s: %v", event.ConversationId, err)
		msg.Nack()
		return
	}
	if conversation == nil || conversation.IsClosed() {
		msg.Ack()
		return
	}

	// Only greet once: the acknowledgement goes out when no agent has
	// spoken yet and this is still the first client message.
	agentCount, err := uow.MessageRepository().Count(ctx,
		specification.ByConversationID{ConversationID: event.ConversationId},
		specification.Filter("sender_type", "agent"),
	)
	if err != nil {
		log.Printf("[ERROR] Failed to count agent messages: %v", err)
		msg.Nack()
		return
	}
	if agentCount > 0 {
		msg.Ack()
		return
	}

	if _, err := s.messageService.AddAgentMessage(ctx, event.ConversationId, autoReplyAgentName, autoReplyText); err != nil {
		log.Printf("[ERROR] Failed to send auto reply for %s: %v", event.ConversationId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
