package contract

import (
	"context"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/repository/specification"
)

type ErrorLogRepository interface {
	Create(ctx context.Context, log *entity.ErrorLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ErrorLog, error)
}
