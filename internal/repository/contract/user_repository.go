package contract

import (
	"context"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)

	// Membership lookups. A nil result means the user is not in the list.
	FindSupportUser(ctx context.Context, userId uuid.UUID) (*entity.SupportUser, error)
	FindAdminUser(ctx context.Context, userId uuid.UUID) (*entity.AdminUser, error)

	CreateSupportUser(ctx context.Context, supportUser *entity.SupportUser) error
	CreateAdminUser(ctx context.Context, adminUser *entity.AdminUser) error

	FindMember(ctx context.Context, specs ...specification.Specification) (*entity.Member, error)
	FindCommunity(ctx context.Context, id string) (*entity.Community, error)
}
