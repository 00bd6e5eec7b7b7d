package contract

import (
	"context"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.Provider) error
	Update(ctx context.Context, provider *entity.Provider) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Provider, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Provider, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
