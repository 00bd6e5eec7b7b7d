package implementation

import (
	"context"
	"errors"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/mapper"
	"redoma-support-be/internal/model"
	"redoma-support-be/internal/repository/contract"
	"redoma-support-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProviderMapper
}

func NewProviderRepository(db *gorm.DB) contract.ProviderRepository {
	return &ProviderRepositoryImpl{
		db:     db,
		mapper: mapper.NewProviderMapper(),
	}
}

func (r *ProviderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProviderRepositoryImpl) Create(ctx context.Context, provider *entity.Provider) error {
	m := r.mapper.ToModel(provider)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*provider = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProviderRepositoryImpl) Update(ctx context.Context, provider *entity.Provider) error {
	m := r.mapper.ToModel(provider)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*provider = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProviderRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Provider{}, id).Error
}

func (r *ProviderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Provider, error) {
	var m model.Provider
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProviderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Provider, error) {
	var models []*model.Provider
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProviderRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Provider{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
