package mapper

import (
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/model"
)

type ProviderMapper struct{}

func NewProviderMapper() *ProviderMapper {
	return &ProviderMapper{}
}

func (m *ProviderMapper) ToEntity(p *model.Provider) *entity.Provider {
	if p == nil {
		return nil
	}
	return &entity.Provider{
		Id:               p.Id,
		Name:             p.Name,
		Type:             entity.ProviderType(p.Type),
		Category:         p.Category,
		Description:      p.Description,
		CashbackPercent:  p.CashbackPercent,
		RevenueShareText: p.RevenueShareText,
		Link:             p.Link,
		LogoURL:          p.LogoURL,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *ProviderMapper) ToModel(p *entity.Provider) *model.Provider {
	if p == nil {
		return nil
	}
	return &model.Provider{
		Id:               p.Id,
		Name:             p.Name,
		Type:             string(p.Type),
		Category:         p.Category,
		Description:      p.Description,
		CashbackPercent:  p.CashbackPercent,
		RevenueShareText: p.RevenueShareText,
		Link:             p.Link,
		LogoURL:          p.LogoURL,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *ProviderMapper) ToEntities(models []*model.Provider) []*entity.Provider {
	entities := make([]*entity.Provider, 0, len(models))
	for _, mod := range models {
		entities = append(entities, m.ToEntity(mod))
	}
	return entities
}
