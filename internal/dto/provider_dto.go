package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProviderRequest struct {
	Name             string  `json:"name" validate:"required,min=2"`
	Type             string  `json:"type" validate:"required,oneof=ecommerce service other"`
	Category         string  `json:"category"`
	Description      string  `json:"description"`
	CashbackPercent  float64 `json:"cashback_percent" validate:"gte=0,lte=100"`
	RevenueShareText string  `json:"revenue_share_text"`
	Link             string  `json:"link" validate:"omitempty,url"`
	IsActive         *bool   `json:"is_active"`
}

type UpdateProviderRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=2"`
	Type             *string  `json:"type" validate:"omitempty,oneof=ecommerce service other"`
	Category         *string  `json:"category"`
	Description      *string  `json:"description"`
	CashbackPercent  *float64 `json:"cashback_percent" validate:"omitempty,gte=0,lte=100"`
	RevenueShareText *string  `json:"revenue_share_text"`
	Link             *string  `json:"link" validate:"omitempty,url"`
	IsActive         *bool    `json:"is_active"`
}

type ProviderResponse struct {
	Id               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Category         string    `json:"category,omitempty"`
	Description      string    `json:"description,omitempty"`
	CashbackPercent  float64   `json:"cashback_percent"`
	RevenueShareText string    `json:"revenue_share_text,omitempty"`
	Link             string    `json:"link,omitempty"`
	LogoURL          string    `json:"logo_url,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
