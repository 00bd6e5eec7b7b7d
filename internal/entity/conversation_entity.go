package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationStatus string

const (
	ConversationStatusOpen    ConversationStatus = "open"
	ConversationStatusClaimed ConversationStatus = "claimed"
	ConversationStatusClosed  ConversationStatus = "closed"
)

// CanTransitionTo enforces the one-directional lifecycle, one step at a
// time: open -> claimed -> closed. Closing requires a prior claim, and
// closed is terminal.
func (s ConversationStatus) CanTransitionTo(next ConversationStatus) bool {
	switch s {
	case ConversationStatusOpen:
		return next == ConversationStatusClaimed
	case ConversationStatusClaimed:
		return next == ConversationStatusClosed
	default:
		return false
	}
}

type Conversation struct {
	Id               uuid.UUID
	CommunityId      string
	Status           ConversationStatus
	ClaimedBy        *string
	ClientToken      *string
	MemberId         *uuid.UUID
	ClientLastSeenAt *time.Time
	AgentLastSeenAt  *time.Time
	CreatedAt        time.Time
}

func (c *Conversation) IsClosed() bool {
	return c.Status == ConversationStatusClosed
}
