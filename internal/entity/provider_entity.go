package entity

import (
	"time"

	"github.com/google/uuid"
)

type ProviderType string

const (
	ProviderTypeEcommerce ProviderType = "ecommerce"
	ProviderTypeService   ProviderType = "service"
	ProviderTypeOther     ProviderType = "other"
)

type Provider struct {
	Id               uuid.UUID
	Name             string
	Type             ProviderType
	Category         string
	Description      string
	CashbackPercent  float64
	RevenueShareText string
	Link             string
	LogoURL          *string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
