package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(f *fakeFactory, feed *fakeFeedPublisher, msgs *fakeClientMessagePublisher, store *fakeStorage) IMessageService {
	return NewMessageService(f, feed, msgs, store)
}

func TestAddClientMessagePublishesRowAndWorkerEvent(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	feed := &fakeFeedPublisher{}
	msgs := &fakeClientMessagePublisher{}
	svc := newMessageService(f, feed, msgs, &fakeStorage{})

	res, err := svc.AddClientMessage(context.Background(), c.Id, "tok-a", "oi")
	require.NoError(t, err)
	assert.Equal(t, "client", res.SenderType)
	assert.Equal(t, "text", res.Kind)

	require.Len(t, feed.rows, 1)
	assert.Equal(t, constant.TableMessages, feed.rows[0].Table)
	assert.Equal(t, "tok-a", feed.rows[0].ClientToken)

	require.Len(t, msgs.events, 1)
	assert.Equal(t, "oi", msgs.events[0].Content)
}

func TestAddClientMessageRejectsForeignToken(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	svc := newMessageService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{}, &fakeStorage{})

	_, err := svc.AddClientMessage(context.Background(), c.Id, "tok-b", "oi")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestAddClientMessageToClosedConversation(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusClosed, "tok-a")
	svc := newMessageService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{}, &fakeStorage{})

	_, err := svc.AddClientMessage(context.Background(), c.Id, "tok-a", "oi")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "conversation_closed", appErr.Code)
	assert.Empty(t, f.uow.messages.messages)
}

func TestAddAgentMessageScopesFeedToOwningToken(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusClaimed, "tok-a")
	feed := &fakeFeedPublisher{}
	msgs := &fakeClientMessagePublisher{}
	svc := newMessageService(f, feed, msgs, &fakeStorage{})

	res, err := svc.AddAgentMessage(context.Background(), c.Id, "Ana", "posso ajudar?")
	require.NoError(t, err)
	assert.Equal(t, "agent", res.SenderType)

	// The insert is scoped so the owning client's socket receives it.
	require.Len(t, feed.rows, 1)
	assert.Equal(t, "tok-a", feed.rows[0].ClientToken)

	// Agent messages never feed the auto-reply worker.
	assert.Empty(t, msgs.events)
}

func TestAddClientImageRejectsNonImageContent(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	store := &fakeStorage{}
	svc := newMessageService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{}, store)

	_, err := svc.AddClientImage(context.Background(), c.Id, "tok-a", &ImageUpload{
		FileName:    "notes.pdf",
		ContentType: "application/pdf",
		Reader:      strings.NewReader("%PDF"),
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Empty(t, store.uploads)
}

func TestAddClientImageUploadsThenInserts(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	store := &fakeStorage{}
	svc := newMessageService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{}, store)

	res, err := svc.AddClientImage(context.Background(), c.Id, "tok-a", &ImageUpload{
		FileName:    "portao quebrado.jpg",
		ContentType: "image/jpeg",
		Size:        4,
		Reader:      strings.NewReader("data"),
	})
	require.NoError(t, err)
	assert.Equal(t, "image", res.Kind)
	require.NotNil(t, res.ImageURL)

	require.Len(t, store.uploads, 1)
	up := store.uploads[0]
	assert.Equal(t, constant.BucketChatUploads, up.Bucket)
	assert.True(t, strings.HasPrefix(up.Path, c.Id.String()+"/client/"), up.Path)
	assert.Contains(t, up.Path, "portao_quebrado.jpg")
	assert.Equal(t, store.PublicURL(up.Bucket, up.Path), *res.ImageURL)
}

func TestImageUploadFailureLeavesNoMessageRow(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	store := &fakeStorage{failErr: errors.New("bucket offline")}
	svc := newMessageService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{}, store)

	_, err := svc.AddClientImage(context.Background(), c.Id, "tok-a", &ImageUpload{
		FileName:    "foto.png",
		ContentType: "image/png",
		Reader:      strings.NewReader("data"),
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.Status)
	assert.Equal(t, "upload_failed", appErr.Code)
	assert.Empty(t, f.uow.messages.messages)
}

func TestAddAgentImageOnMissingConversation(t *testing.T) {
	f := newFakeFactory()
	svc := newMessageService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{}, &fakeStorage{})

	_, err := svc.AddAgentImage(context.Background(), uuid.New(), "Ana", &ImageUpload{
		FileName:    "foto.png",
		ContentType: "image/png",
		Reader:      strings.NewReader("data"),
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestListForClientChecksOwnership(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	f.uow.messages.messages = []*entity.Message{
		{Id: uuid.New(), ConversationId: c.Id, SenderType: entity.SenderTypeClient, Kind: entity.MessageKindText, Text: "oi"},
	}
	svc := newMessageService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{}, &fakeStorage{})

	res, err := svc.ListForClient(context.Background(), c.Id, "tok-a")
	require.NoError(t, err)
	assert.Len(t, res, 1)

	_, err = svc.ListForClient(context.Background(), c.Id, "tok-b")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "foto_do_portao.jpg", sanitizeFileName("foto do portao.jpg"))
	assert.Equal(t, "passwd", sanitizeFileName("../../etc/passwd"))
	assert.Equal(t, "file", sanitizeFileName(""))
}
