package specification

import "gorm.io/gorm"

// ActiveOnly restricts the catalog to rows visible to end clients.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type ByProviderType struct {
	Type string
}

func (s ByProviderType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}
