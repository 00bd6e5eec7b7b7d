package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/pkg/apperror"
	"redoma-support-be/internal/repository/specification"
	"redoma-support-be/internal/repository/unitofwork"
	"redoma-support-be/pkg/storage"

	"github.com/google/uuid"
)

// ImageUpload carries one incoming image file.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type IMessageService interface {
	ListForClient(ctx context.Context, conversationId uuid.UUID, clientToken string) ([]*dto.MessageResponse, error)
	ListForStaff(ctx context.Context, conversationId uuid.UUID) ([]*dto.MessageResponse, error)

	AddClientMessage(ctx context.Context, conversationId uuid.UUID, clientToken, content string) (*dto.MessageResponse, error)
	AddAgentMessage(ctx context.Context, conversationId uuid.UUID, agentName, content string) (*dto.MessageResponse, error)

	// AddClientImage uploads the object first and only then inserts the
	// message row, so a stored message never points at a missing image.
	AddClientImage(ctx context.Context, conversationId uuid.UUID, clientToken string, upload *ImageUpload) (*dto.MessageResponse, error)
	AddAgentImage(ctx context.Context, conversationId uuid.UUID, agentName string, upload *ImageUpload) (*dto.MessageResponse, error)
}

type messageService struct {
	uowFactory    unitofwork.RepositoryFactory
	feedPublisher IFeedPublisher
	msgPublisher  IClientMessagePublisher
	storage       storage.ObjectStorage
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	feedPublisher IFeedPublisher,
	msgPublisher IClientMessagePublisher,
	objectStorage storage.ObjectStorage,
) IMessageService {
	return &messageService{
		uowFactory:    uowFactory,
		feedPublisher: feedPublisher,
		msgPublisher:  msgPublisher,
		storage:       objectStorage,
	}
}

func (s *messageService) ListForClient(ctx context.Context, conversationId uuid.UUID, clientToken string) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedConversation(ctx, uow, conversationId, clientToken); err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderByCreatedAt{},
	)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}

func (s *messageService) ListForStaff(ctx context.Context, conversationId uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderByCreatedAt{},
	)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}

func (s *messageService) AddClientMessage(ctx context.Context, conversationId uuid.UUID, clientToken, content string) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.ownedConversation(ctx, uow, conversationId, clientToken)
	if err != nil {
		return nil, err
	}
	if conversation.IsClosed() {
		return nil, apperror.Conflict("conversation_closed", "conversation is closed")
	}

	message := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		SenderType:     entity.SenderTypeClient,
		Kind:           entity.MessageKindText,
		Text:           content,
		ClientToken:    &clientToken,
		CreatedAt:      time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	res := toMessageResponse(message)
	s.feedPublisher.RowInserted(ctx, constant.TableMessages, res, conversationId.String(), clientToken)
	s.msgPublisher.PublishClientMessage(ctx, ClientMessageEvent{
		ConversationId: conversationId,
		MessageId:      message.Id,
		ClientToken:    clientToken,
		Content:        content,
	})
	return res, nil
}

func (s *messageService) AddAgentMessage(ctx context.Context, conversationId uuid.UUID, agentName, content string) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	if conversation.IsClosed() {
		return nil, apperror.Conflict("conversation_closed", "conversation is closed")
	}

	message := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		SenderType:     entity.SenderTypeAgent,
		Kind:           entity.MessageKindText,
		Text:           content,
		CreatedAt:      time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	res := toMessageResponse(message)
	s.feedPublisher.RowInserted(ctx, constant.TableMessages, res, conversationId.String(), derefToken(conversation.ClientToken))
	return res, nil
}

func (s *messageService) AddClientImage(ctx context.Context, conversationId uuid.UUID, clientToken string, upload *ImageUpload) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.ownedConversation(ctx, uow, conversationId, clientToken)
	if err != nil {
		return nil, err
	}
	if conversation.IsClosed() {
		return nil, apperror.Conflict("conversation_closed", "conversation is closed")
	}

	return s.storeImageMessage(ctx, uow, conversation, entity.SenderTypeClient, &clientToken, upload)
}

func (s *messageService) AddAgentImage(ctx context.Context, conversationId uuid.UUID, agentName string, upload *ImageUpload) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	if conversation.IsClosed() {
		return nil, apperror.Conflict("conversation_closed", "conversation is closed")
	}

	return s.storeImageMessage(ctx, uow, conversation, entity.SenderTypeAgent, nil, upload)
}

func (s *messageService) storeImageMessage(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	conversation *entity.Conversation,
	sender entity.SenderType,
	clientToken *string,
	upload *ImageUpload,
) (*dto.MessageResponse, error) {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, apperror.BadRequest("only image uploads are accepted")
	}

	objectPath := fmt.Sprintf("%s/%s/%d_%s",
		conversation.Id.String(),
		sender,
		time.Now().UnixMilli(),
		sanitizeFileName(upload.FileName),
	)

	// Upload before insert. If the upload fails there is no message row;
	// if the insert fails the orphan object is harmless.
	if err := s.storage.Upload(ctx, constant.BucketChatUploads, objectPath, upload.Reader, upload.Size, upload.ContentType); err != nil {
		return nil, apperror.Wrap(502, "upload_failed", "failed to store image", err)
	}

	imageURL := s.storage.PublicURL(constant.BucketChatUploads, objectPath)
	message := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		SenderType:     sender,
		Kind:           entity.MessageKindImage,
		ImageURL:       &imageURL,
		StoragePath:    &objectPath,
		ClientToken:    clientToken,
		CreatedAt:      time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	res := toMessageResponse(message)
	s.feedPublisher.RowInserted(ctx, constant.TableMessages, res, conversation.Id.String(), derefToken(conversation.ClientToken))
	return res, nil
}

func (s *messageService) ownedConversation(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, clientToken string) (*entity.Conversation, error) {
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
	return conversation, nil
}

func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." {
		return "file"
	}
	return base
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		SenderType:     string(m.SenderType),
		Kind:           string(m.Kind),
		Content:        m.Text,
		ImageURL:       m.ImageURL,
		CreatedAt:      m.CreatedAt,
	}
}

func toMessageResponses(messages []*entity.Message) []*dto.MessageResponse {
	result := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageResponse(m))
	}
	return result
}
