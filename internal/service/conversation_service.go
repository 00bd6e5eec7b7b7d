package service

import (
	"context"
	"time"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/pkg/apperror"
	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/internal/pkg/mailer"
	"redoma-support-be/internal/repository/specification"
	"redoma-support-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IConversationService interface {
	// Create opens a conversation and stores its first client message in
	// one transaction.
	Create(ctx context.Context, clientToken string, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)

	// ListForClient returns only conversations owned by the client token.
	ListForClient(ctx context.Context, clientToken string) ([]*dto.ConversationResponse, error)
	GetForClient(ctx context.Context, id uuid.UUID, clientToken string) (*dto.ConversationResponse, error)

	// ListForStaff returns the full queue, optionally filtered.
	ListForStaff(ctx context.Context, req *dto.ConversationListRequest) ([]*dto.ConversationResponse, error)
	GetForStaff(ctx context.Context, id uuid.UUID) (*dto.ConversationResponse, error)

	// Claim assigns an open conversation to an agent. Exactly one agent
	// wins; everyone else gets ErrAlreadyClaimed.
	Claim(ctx context.Context, id uuid.UUID, agentName string) (*dto.ConversationResponse, error)

	Close(ctx context.Context, id uuid.UUID) (*dto.ConversationResponse, error)

	MarkAgentSeen(ctx context.Context, id uuid.UUID) (*dto.MarkSeenResponse, error)
	MarkClientSeen(ctx context.Context, id uuid.UUID, clientToken string) (*dto.MarkSeenResponse, error)
}

type conversationService struct {
	uowFactory    unitofwork.RepositoryFactory
	feedPublisher IFeedPublisher
	msgPublisher  IClientMessagePublisher
	emailService  mailer.IEmailService
	supportInbox  string
	logger        logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	feedPublisher IFeedPublisher,
	msgPublisher IClientMessagePublisher,
	emailService mailer.IEmailService,
	supportInbox string,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:    uowFactory,
		feedPublisher: feedPublisher,
		msgPublisher:  msgPublisher,
		emailService:  emailService,
		supportInbox:  supportInbox,
		logger:        log,
	}
}

func (s *conversationService) Create(ctx context.Context, clientToken string, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	community, err := uow.UserRepository().FindCommunity(ctx, req.CommunityId)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, apperror.NotFound("community not found")
	}

	// A known member may attach their identity; anonymous clients are
	// scoped by the token alone.
	var memberId *uuid.UUID
	if req.MemberId != nil {
		member, err := uow.UserRepository().FindMember(ctx,
			specification.ByID{ID: *req.MemberId},
			specification.Filter("community_id", req.CommunityId),
		)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, apperror.NotFound("member not found")
		}
		memberId = &member.Id
	}

	now := time.Now()
	conversation := &entity.Conversation{
		Id:          uuid.New(),
		CommunityId: req.CommunityId,
		Status:      entity.ConversationStatusOpen,
		ClientToken: &clientToken,
		MemberId:    memberId,
		CreatedAt:   now,
	}
	firstMessage := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		SenderType:     entity.SenderTypeClient,
		Kind:           entity.MessageKindText,
		Text:           req.FirstMessage,
		ClientToken:    &clientToken,
		CreatedAt:      now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	if err := uow.MessageRepository().Create(ctx, firstMessage); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	convId := conversation.Id.String()
	s.feedPublisher.RowInserted(ctx, constant.TableConversations, toConversationResponse(conversation), convId, clientToken)
	s.feedPublisher.RowInserted(ctx, constant.TableMessages, toMessageResponse(firstMessage), convId, clientToken)
	s.msgPublisher.PublishClientMessage(ctx, ClientMessageEvent{
		ConversationId: conversation.Id,
		MessageId:      firstMessage.Id,
		ClientToken:    clientToken,
		Content:        firstMessage.Text,
	})

	// Notify the support inbox out of band; a failed mail never fails
	// the conversation.
	if s.supportInbox != "" {
		go func() {
			if err := s.emailService.SendNewConversationNotice(s.supportInbox, conversation.CommunityId, convId); err != nil {
				s.logger.Warn("ConversationService", "Failed to send new conversation notice", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	return toConversationResponse(conversation), nil
}

func (s *conversationService) ListForClient(ctx context.Context, clientToken string) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByClientToken{ClientToken: clientToken},
		specification.OrderByCreatedAt{Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return toConversationResponses(conversations), nil
}

func (s *conversationService) GetForClient(ctx context.Context, id uuid.UUID, clientToken string) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByClientToken{ClientToken: clientToken},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	return toConversationResponse(conversation), nil
}

func (s *conversationService) ListForStaff(ctx context.Context, req *dto.ConversationListRequest) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{specification.OrderByCreatedAt{Desc: true}}
	if req.Status != "" {
		specs = append(specs, specification.ByStatus{Status: req.Status})
	}
	if req.CommunityId != "" {
		specs = append(specs, specification.ByCommunityID{CommunityID: req.CommunityId})
	}
	if req.Limit > 0 {
		offset := 0
		if req.Page > 1 {
			offset = (req.Page - 1) * req.Limit
		}
		specs = append(specs, specification.Pagination{Limit: req.Limit, Offset: offset})
	}

	conversations, err := uow.ConversationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toConversationResponses(conversations), nil
}

func (s *conversationService) GetForStaff(ctx context.Context, id uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	return toConversationResponse(conversation), nil
}

func (s *conversationService) Claim(ctx context.Context, id uuid.UUID, agentName string) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.ConversationRepository().Claim(ctx, id, agentName)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Either already claimed by someone faster, closed, or missing.
		// Reload to tell the caller which.
		existing, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperror.NotFound("conversation not found")
		}
		if existing.IsClosed() {
			return nil, apperror.Conflict("conversation_closed", "conversation is closed")
		}
		return nil, apperror.Conflict("already_claimed", "conversation already claimed")
	}

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}

	res := toConversationResponse(conversation)
	s.feedPublisher.RowUpdated(ctx, constant.TableConversations, res, id.String(), derefToken(conversation.ClientToken))
	return res, nil
}

func (s *conversationService) Close(ctx context.Context, id uuid.UUID) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.ConversationRepository().Close(ctx, id)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		existing, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperror.NotFound("conversation not found")
		}
		switch {
		case existing.IsClosed():
			return nil, apperror.Conflict("conversation_closed", "conversation already closed")
		case existing.Status.CanTransitionTo(entity.ConversationStatusClosed):
			// Claimed at reload time: another closer raced us in between.
			return nil, apperror.Conflict("conversation_closed", "conversation already closed")
		default:
			return nil, apperror.Conflict("not_claimed", "conversation must be claimed before closing")
		}
	}

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}

	res := toConversationResponse(conversation)
	s.feedPublisher.RowUpdated(ctx, constant.TableConversations, res, id.String(), derefToken(conversation.ClientToken))
	return res, nil
}

func (s *conversationService) MarkAgentSeen(ctx context.Context, id uuid.UUID) (*dto.MarkSeenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	seenAt := time.Now()
	rows, err := uow.ConversationRepository().MarkAgentSeen(ctx, id, seenAt)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperror.NotFound("conversation not found")
	}

	s.publishSeenUpdate(ctx, uow, id)
	return &dto.MarkSeenResponse{Updated: true, SeenAt: seenAt}, nil
}

func (s *conversationService) MarkClientSeen(ctx context.Context, id uuid.UUID, clientToken string) (*dto.MarkSeenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	seenAt := time.Now()
	rows, err := uow.ConversationRepository().MarkClientSeen(ctx, id, clientToken, seenAt)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// The id did not match a conversation owned by this token.
		return nil, apperror.NotFound("conversation not found")
	}

	s.publishSeenUpdate(ctx, uow, id)
	return &dto.MarkSeenResponse{Updated: true, SeenAt: seenAt}, nil
}

func (s *conversationService) publishSeenUpdate(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) {
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil || conversation == nil {
		return
	}
	s.feedPublisher.RowUpdated(ctx, constant.TableConversations, toConversationResponse(conversation), id.String(), derefToken(conversation.ClientToken))
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		Id:               c.Id,
		CommunityId:      c.CommunityId,
		Status:           string(c.Status),
		ClaimedBy:        c.ClaimedBy,
		ClientToken:      c.ClientToken,
		MemberId:         c.MemberId,
		ClientLastSeenAt: c.ClientLastSeenAt,
		AgentLastSeenAt:  c.AgentLastSeenAt,
		CreatedAt:        c.CreatedAt,
	}
}

func toConversationResponses(conversations []*entity.Conversation) []*dto.ConversationResponse {
	result := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		result = append(result, toConversationResponse(c))
	}
	return result
}

func derefToken(token *string) string {
	if token == nil {
		return ""
	}
	return *token
}
