package mapper

import (
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}
	return &entity.Conversation{
		Id:               c.Id,
		CommunityId:      c.CommunityId,
		Status:           entity.ConversationStatus(c.Status),
		ClaimedBy:        c.ClaimedBy,
		ClientToken:      c.ClientToken,
		MemberId:         c.MemberId,
		ClientLastSeenAt: c.ClientLastSeenAt,
		AgentLastSeenAt:  c.AgentLastSeenAt,
		CreatedAt:        c.CreatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	return &model.Conversation{
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

func (m *ConversationMapper) ToEntities(models []*model.Conversation) []*entity.Conversation {
	entities := make([]*entity.Conversation, 0, len(models))
	for _, mod := range models {
		entities = append(entities, m.ToEntity(mod))
	}
	return entities
}
