package service

import (
	"context"
	"testing"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationService(f *fakeFactory, feed *fakeFeedPublisher, msgs *fakeClientMessagePublisher) IConversationService {
	return NewConversationService(f, feed, msgs, &fakeEmailService{}, "", fakeLogger{})
}

func seedConversation(f *fakeFactory, status entity.ConversationStatus, clientToken string) *entity.Conversation {
	c := &entity.Conversation{
		Id:          uuid.New(),
		CommunityId: "vila-verde",
		Status:      status,
		ClientToken: strPtr(clientToken),
	}
	f.uow.conversations.conversations[c.Id] = c
	return c
}

func TestCreateConversationRequiresKnownCommunity(t *testing.T) {
	f := newFakeFactory()
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	_, err := svc.Create(context.Background(), "tok-a", &dto.CreateConversationRequest{
		CommunityId:  "nope",
		FirstMessage: "hello",
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestCreateConversationStoresFirstMessageTransactionally(t *testing.T) {
	f := newFakeFactory()
	f.uow.users.communities["vila-verde"] = &entity.Community{Id: "vila-verde", Name: "Vila Verde"}
	feed := &fakeFeedPublisher{}
	msgs := &fakeClientMessagePublisher{}
	svc := newConversationService(f, feed, msgs)

	res, err := svc.Create(context.Background(), "tok-a", &dto.CreateConversationRequest{
		CommunityId:  "vila-verde",
		FirstMessage: "meu portao quebrou",
	})
	require.NoError(t, err)

	assert.Equal(t, "open", res.Status)
	assert.Equal(t, 1, f.uow.committed)

	stored, _ := f.uow.messages.FindAll(context.Background())
	require.Len(t, stored, 1)
	assert.Equal(t, "meu portao quebrou", stored[0].Text)
	assert.Equal(t, entity.SenderTypeClient, stored[0].SenderType)

	// Both rows hit the feed, scoped to the owning token.
	require.Len(t, feed.rows, 2)
	assert.Equal(t, constant.TableConversations, feed.rows[0].Table)
	assert.Equal(t, constant.TableMessages, feed.rows[1].Table)
	assert.Equal(t, "tok-a", feed.rows[0].ClientToken)

	// The auto-reply worker gets notified.
	require.Len(t, msgs.events, 1)
	assert.Equal(t, res.Id, msgs.events[0].ConversationId)
}

func TestCreateConversationLinksKnownMember(t *testing.T) {
	f := newFakeFactory()
	f.uow.users.communities["vila-verde"] = &entity.Community{Id: "vila-verde", Name: "Vila Verde"}
	member := &entity.Member{Id: uuid.New(), CommunityId: "vila-verde", DisplayName: "Dona Ana"}
	f.uow.users.members[member.Id] = member
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	res, err := svc.Create(context.Background(), "tok-a", &dto.CreateConversationRequest{
		CommunityId:  "vila-verde",
		FirstMessage: "ola",
		MemberId:     &member.Id,
	})
	require.NoError(t, err)
	require.NotNil(t, res.MemberId)
	assert.Equal(t, member.Id, *res.MemberId)
}

func TestCreateConversationRejectsUnknownMember(t *testing.T) {
	f := newFakeFactory()
	f.uow.users.communities["vila-verde"] = &entity.Community{Id: "vila-verde", Name: "Vila Verde"}
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	unknown := uuid.New()
	_, err := svc.Create(context.Background(), "tok-a", &dto.CreateConversationRequest{
		CommunityId:  "vila-verde",
		FirstMessage: "ola",
		MemberId:     &unknown,
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, 0, f.uow.committed)
}

func TestCreateConversationRejectsMemberFromAnotherCommunity(t *testing.T) {
	f := newFakeFactory()
	f.uow.users.communities["vila-verde"] = &entity.Community{Id: "vila-verde", Name: "Vila Verde"}
	member := &entity.Member{Id: uuid.New(), CommunityId: "jardim-azul", DisplayName: "Seu Jorge"}
	f.uow.users.members[member.Id] = member
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	_, err := svc.Create(context.Background(), "tok-a", &dto.CreateConversationRequest{
		CommunityId:  "vila-verde",
		FirstMessage: "ola",
		MemberId:     &member.Id,
	})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestListForClientOnlyReturnsOwnedConversations(t *testing.T) {
	f := newFakeFactory()
	seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	seedConversation(f, entity.ConversationStatusOpen, "tok-b")
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	res, err := svc.ListForClient(context.Background(), "tok-a")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "tok-a", *res[0].ClientToken)
}

func TestGetForClientRejectsForeignToken(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	_, err := svc.GetForClient(context.Background(), c.Id, "tok-b")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestClaimFirstAgentWins(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	feed := &fakeFeedPublisher{}
	svc := newConversationService(f, feed, &fakeClientMessagePublisher{})

	res, err := svc.Claim(context.Background(), c.Id, "Ana")
	require.NoError(t, err)
	assert.Equal(t, "claimed", res.Status)
	require.NotNil(t, res.ClaimedBy)
	assert.Equal(t, "Ana", *res.ClaimedBy)

	// Second claimant loses with the typed conflict.
	_, err = svc.Claim(context.Background(), c.Id, "Bia")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "already_claimed", appErr.Code)

	// The winner is untouched and the update was broadcast once.
	assert.Equal(t, "Ana", *f.uow.conversations.conversations[c.Id].ClaimedBy)
	assert.Len(t, feed.forTable(constant.TableConversations), 1)
}

func TestClaimClosedConversation(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusClosed, "tok-a")
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	_, err := svc.Claim(context.Background(), c.Id, "Ana")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "conversation_closed", appErr.Code)
}

func TestClaimMissingConversation(t *testing.T) {
	f := newFakeFactory()
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	_, err := svc.Claim(context.Background(), uuid.New(), "Ana")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestCloseRequiresClaim(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	_, err := svc.Close(context.Background(), c.Id)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "not_claimed", appErr.Code)
}

func TestCloseClaimedConversationIsTerminal(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusClaimed, "tok-a")
	agent := "Ana"
	c.ClaimedBy = &agent
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	res, err := svc.Close(context.Background(), c.Id)
	require.NoError(t, err)
	assert.Equal(t, "closed", res.Status)

	_, err = svc.Close(context.Background(), c.Id)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "conversation_closed", appErr.Code)
}

func TestMarkClientSeenRequiresOwningToken(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusClaimed, "tok-a")
	feed := &fakeFeedPublisher{}
	svc := newConversationService(f, feed, &fakeClientMessagePublisher{})

	_, err := svc.MarkClientSeen(context.Background(), c.Id, "tok-b")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	assert.Nil(t, c.ClientLastSeenAt)

	res, err := svc.MarkClientSeen(context.Background(), c.Id, "tok-a")
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.NotNil(t, c.ClientLastSeenAt)

	// The read receipt reaches the other side through the feed.
	assert.Len(t, feed.forTable(constant.TableConversations), 1)
}

func TestMarkAgentSeenStampsTimestamp(t *testing.T) {
	f := newFakeFactory()
	c := seedConversation(f, entity.ConversationStatusClaimed, "tok-a")
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	res, err := svc.MarkAgentSeen(context.Background(), c.Id)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	require.NotNil(t, c.AgentLastSeenAt)
	assert.Equal(t, res.SeenAt, *c.AgentLastSeenAt)
}

func TestListForStaffFiltersByStatus(t *testing.T) {
	f := newFakeFactory()
	seedConversation(f, entity.ConversationStatusOpen, "tok-a")
	seedConversation(f, entity.ConversationStatusClosed, "tok-b")
	svc := newConversationService(f, &fakeFeedPublisher{}, &fakeClientMessagePublisher{})

	res, err := svc.ListForStaff(context.Background(), &dto.ConversationListRequest{Status: "open"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "open", res[0].Status)
}
