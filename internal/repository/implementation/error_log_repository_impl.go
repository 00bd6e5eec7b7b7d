package implementation

import (
	"context"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/mapper"
	"redoma-support-be/internal/model"
	"redoma-support-be/internal/repository/contract"
	"redoma-support-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ErrorLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ErrorLogMapper
}

func NewErrorLogRepository(db *gorm.DB) contract.ErrorLogRepository {
	return &ErrorLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewErrorLogMapper(),
	}
}

func (r *ErrorLogRepositoryImpl) Create(ctx context.Context, log *entity.ErrorLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *ErrorLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ErrorLog, error) {
	var models []*model.ErrorLog
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
