package contract

import (
	"context"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/repository/specification"
)

// MessageRepository has no Update or Delete: messages are immutable
// once created.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
