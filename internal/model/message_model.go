package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderType     string    `gorm:"type:varchar(20);not null"`
	Kind           string    `gorm:"type:varchar(20);not null;default:'text'"`
	Text           string    `gorm:"type:text"`
	ImageURL       *string   `gorm:"type:text"`
	StoragePath    *string   `gorm:"type:text"`
	ClientToken    *string   `gorm:"type:varchar(100);index"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}
