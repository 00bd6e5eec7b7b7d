package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SupportUser marks a user as a member of the support team.
// Membership is checked after a successful password login; a login without
// membership is rejected and no session is issued.
type SupportUser struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	DisplayName string
	CreatedAt   time.Time
}

// AdminUser marks a user as a master admin.
type AdminUser struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
}

// Community is the tenant scope a conversation belongs to, identified by a
// human-chosen string id (e.g. a residential community slug).
type Community struct {
	Id        string
	Name      string
	CreatedAt time.Time
}

// Member is an end-user identity linked to a community. A conversation may
// reference one when the client is known; anonymous clients are scoped by
// their client token alone.
type Member struct {
	Id          uuid.UUID
	CommunityId string
	DisplayName string
	Email       *string
	CreatedAt   time.Time
}
