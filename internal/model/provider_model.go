package model

import (
	"time"

	"github.com/google/uuid"
)

type Provider struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"type:varchar(255);not null"`
	Type             string    `gorm:"type:varchar(20);not null;default:'other'"`
	Category         string    `gorm:"type:varchar(100)"`
	Description      string    `gorm:"type:text"`
	CashbackPercent  float64   `gorm:"type:decimal(5,2);not null;default:0"`
	RevenueShareText string    `gorm:"type:text"`
	Link             string    `gorm:"type:text"`
	LogoURL          *string   `gorm:"type:text"`
	IsActive         bool      `gorm:"not null;default:true;index"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Provider) TableName() string {
	return "providers"
}
