package service

import (
	"context"
	"encoding/json"
	"testing"

	"redoma-support-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func autoReplyFixture(t *testing.T, f *fakeFactory) *autoReplyService {
	t.Helper()
	msgService := NewMessageService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{}, &fakeStorage{})
	return &autoReplyService{
		uowFactory:     f,
		messageService: msgService,
	}
}

func clientMessagePayload(t *testing.T, conversationId uuid.UUID) *message.Message {
	t.Helper()
	payload, err := json.Marshal(ClientMessageEvent{
		ConversationId: conversationId,
		MessageId:      uuid.New(),
		ClientToken:    "tok-a",
		Content:        "oi",
	})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func agentReplies(f *fakeFactory, conversationId uuid.UUID) []*entity.Message {
	var out []*entity.Message
	for _, m := range f.uow.messages.messages {
		if m.ConversationId == conversationId && m.SenderType == entity.SenderTypeAgent {
			out = append(out, m)
		}
	}
	return out
}

func TestAutoReplyGreetsFirstClientMessage(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	svc := autoReplyFixture(t, f)

	svc.processMessage(context.Background(), clientMessagePayload(t, c.Id))

	replies := agentReplies(f, c.Id)
	require.Len(t, replies, 1)
	assert.Equal(t, autoReplyText, replies[0].Text)
}

func TestAutoReplyGreetsOnlyOnce(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	svc := autoReplyFixture(t, f)

	// An agent already spoke in this thread.
	f.uow.messages.messages = append(f.uow.messages.messages, &entity.Message{
		Id:             uuid.New(),
		ConversationId: c.Id,
		SenderType:     entity.SenderTypeAgent,
		Kind:           entity.MessageKindText,
		Text:           "posso ajudar?",
	})

	svc.processMessage(context.Background(), clientMessagePayload(t, c.Id))
	assert.Len(t, agentReplies(f, c.Id), 1)
}

func TestAutoReplySkipsClosedConversation(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusClosed, "tok-a")
	svc := autoReplyFixture(t, f)

	svc.processMessage(context.Background(), clientMessagePayload(t, c.Id))
	assert.Empty(t, agentReplies(f, c.Id))
}

func TestAutoReplyAcksMalformedPayload(t *testing.T) {
	f := newFakeFactory()
	svc := autoReplyFixture(t, f)

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	svc.processMessage(context.Background(), msg)
	assert.Empty(t, f.uow.messages.messages)
}
