package mapper

import (
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		SenderType:     entity.SenderType(msg.SenderType),
		Kind:           entity.MessageKind(msg.Kind),
		Text:           msg.Text,
		ImageURL:       msg.ImageURL,
		StoragePath:    msg.StoragePath,
		ClientToken:    msg.ClientToken,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		SenderType:     string(msg.SenderType),
		Kind:           string(msg.Kind),
		Text:           msg.Text,
		ImageURL:       msg.ImageURL,
		StoragePath:    msg.StoragePath,
		ClientToken:    msg.ClientToken,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *MessageMapper) ToEntities(models []*model.Message) []*entity.Message {
	entities := make([]*entity.Message, 0, len(models))
	for _, mod := range models {
		entities = append(entities, m.ToEntity(mod))
	}
	return entities
}
