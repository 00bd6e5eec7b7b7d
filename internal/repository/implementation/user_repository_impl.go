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

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindSupportUser(ctx context.Context, userId uuid.UUID) (*entity.SupportUser, error) {
	var m model.SupportUser
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SupportToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindAdminUser(ctx context.Context, userId uuid.UUID) (*entity.AdminUser, error) {
	var m model.AdminUser
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AdminToEntity(&m), nil
}

func (r *UserRepositoryImpl) CreateSupportUser(ctx context.Context, supportUser *entity.SupportUser) error {
	m := &model.SupportUser{
		Id:          supportUser.Id,
		UserId:      supportUser.UserId,
		DisplayName: supportUser.DisplayName,
		CreatedAt:   supportUser.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*supportUser = *r.mapper.SupportToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) CreateAdminUser(ctx context.Context, adminUser *entity.AdminUser) error {
	m := &model.AdminUser{
		Id:        adminUser.Id,
		UserId:    adminUser.UserId,
		CreatedAt: adminUser.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*adminUser = *r.mapper.AdminToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindMember(ctx context.Context, specs ...specification.Specification) (*entity.Member, error) {
	var m model.Member
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MemberToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindCommunity(ctx context.Context, id string) (*entity.Community, error) {
	var m model.Community
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CommunityToEntity(&m), nil
}
