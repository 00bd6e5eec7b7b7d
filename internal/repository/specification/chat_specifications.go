package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

type ByCommunityID struct {
	CommunityID string
}

func (s ByCommunityID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("community_id = ?", s.CommunityID)
}

// ByClientToken scopes rows to one anonymous browser session. This is the
// Go-side counterpart of the row-level security the hosted backend enforced.
type ByClientToken struct {
	ClientToken string
}

func (s ByClientToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_token = ?", s.ClientToken)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// OrderByCreatedAt is the authoritative message ordering.
type OrderByCreatedAt struct {
	Desc bool
}

func (s OrderByCreatedAt) Apply(db *gorm.DB) *gorm.DB {
	if s.Desc {
		return db.Order("created_at DESC")
	}
	return db.Order("created_at ASC")
}
