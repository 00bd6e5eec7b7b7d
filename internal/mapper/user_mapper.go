package mapper

import (
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) SupportToEntity(s *model.SupportUser) *entity.SupportUser {
	if s == nil {
		return nil
	}
	return &entity.SupportUser{
		Id:          s.Id,
		UserId:      s.UserId,
		DisplayName: s.DisplayName,
		CreatedAt:   s.CreatedAt,
	}
}

func (m *UserMapper) AdminToEntity(a *model.AdminUser) *entity.AdminUser {
	if a == nil {
		return nil
	}
	return &entity.AdminUser{
		Id:        a.Id,
		UserId:    a.UserId,
		CreatedAt: a.CreatedAt,
	}
}

func (m *UserMapper) MemberToEntity(mem *model.Member) *entity.Member {
	if mem == nil {
		return nil
	}
	return &entity.Member{
		Id:          mem.Id,
		CommunityId: mem.CommunityId,
		DisplayName: mem.DisplayName,
		Email:       mem.Email,
		CreatedAt:   mem.CreatedAt,
	}
}

func (m *UserMapper) CommunityToEntity(c *model.Community) *entity.Community {
	if c == nil {
		return nil
	}
	return &entity.Community{
		Id:        c.Id,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
