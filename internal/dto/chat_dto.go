package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	CommunityId  string     `json:"community_id" validate:"required"`
	FirstMessage string     `json:"first_message" validate:"required,min=1"`
	MemberId     *uuid.UUID `json:"member_id,omitempty"`
}

type ConversationResponse struct {
	Id               uuid.UUID  `json:"id"`
	CommunityId      string     `json:"community_id"`
	Status           string     `json:"status"`
	ClaimedBy        *string    `json:"claimed_by,omitempty"`
	ClientToken      *string    `json:"client_token,omitempty"`
	MemberId         *uuid.UUID `json:"member_id,omitempty"`
	ClientLastSeenAt *time.Time `json:"client_last_seen_at,omitempty"`
	AgentLastSeenAt  *time.Time `json:"agent_last_seen_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type AddMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

type MessageResponse struct {
	Id             uuid.UUID `json:"id"`
	ConversationId uuid.UUID `json:"conversation_id"`
	SenderType     string    `json:"sender_type"`
	Kind           string    `json:"kind"`
	Content        string    `json:"content"`
	ImageURL       *string   `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationListRequest struct {
	Status      string `query:"status"`
	CommunityId string `query:"community_id"`
	Page        int    `query:"page"`
	Limit       int    `query:"limit"`
}

type MarkSeenResponse struct {
	Updated bool      `json:"updated"`
	SeenAt  time.Time `json:"seen_at"`
}

type ClaimResponse struct {
	Conversation ConversationResponse `json:"conversation"`
}
