package model

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CommunityId      string     `gorm:"type:varchar(100);not null;index"`
	Status           string     `gorm:"type:varchar(20);not null;default:'open';index"`
	ClaimedBy        *string    `gorm:"type:varchar(255)"`
	ClientToken      *string    `gorm:"type:varchar(100);index"`
	MemberId         *uuid.UUID `gorm:"type:uuid;index"`
	ClientLastSeenAt *time.Time
	AgentLastSeenAt  *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}
