package service

import (
	"context"
	"time"

	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/pkg/apperror"
	"redoma-support-be/internal/pkg/serverutils"
	"redoma-support-be/internal/repository/memory"
	"redoma-support-be/internal/repository/specification"
	"redoma-support-be/internal/repository/unitofwork"
	"redoma-support-be/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	// LoginSupport authenticates a support agent. A correct password is not
	// enough: the user must also appear in the support membership table.
	LoginSupport(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)

	// LoginMaster authenticates a master admin against the admin
	// membership table.
	LoginMaster(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)

	Session(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error)
	Logout(ctx context.Context, userId uuid.UUID) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   *memory.SessionRepository
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, sessions *memory.SessionRepository) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		sessions:   sessions,
	}
}

func (s *authService) LoginSupport(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	membership, err := uow.UserRepository().FindSupportUser(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.Forbidden("not a support team member")
	}

	displayName := membership.DisplayName
	if displayName == "" {
		displayName = user.FullName
	}

	token, err := signStaffToken(user.Id, store.RoleSupport, displayName)
	if err != nil {
		return nil, err
	}

	s.sessions.Save(&store.StaffSession{
		UserId:      user.Id.String(),
		Email:       user.Email,
		FullName:    user.FullName,
		DisplayName: displayName,
		Role:        store.RoleSupport,
	})

	return &dto.LoginResponse{
		Token:       token,
		UserId:      user.Id,
		Email:       user.Email,
		FullName:    user.FullName,
		DisplayName: displayName,
		Role:        store.RoleSupport,
	}, nil
}

func (s *authService) LoginMaster(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	membership, err := uow.UserRepository().FindAdminUser(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.Forbidden("not a master admin")
	}

	token, err := signStaffToken(user.Id, store.RoleMaster, user.FullName)
	if err != nil {
		return nil, err
	}

	s.sessions.Save(&store.StaffSession{
		UserId:      user.Id.String(),
		Email:       user.Email,
		FullName:    user.FullName,
		DisplayName: user.FullName,
		Role:        store.RoleMaster,
	})

	return &dto.LoginResponse{
		Token:       token,
		UserId:      user.Id,
		Email:       user.Email,
		FullName:    user.FullName,
		DisplayName: user.FullName,
		Role:        store.RoleMaster,
	}, nil
}

func (s *authService) Session(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error) {
	if cached, ok := s.sessions.Get(userId.String()); ok {
		return &dto.SessionResponse{
			UserId:      userId,
			Email:       cached.Email,
			FullName:    cached.FullName,
			DisplayName: cached.DisplayName,
			Role:        cached.Role,
		}, nil
	}

	// Cache miss, rebuild from the database.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("session expired")
	}

	role := ""
	displayName := user.FullName
	if admin, _ := uow.UserRepository().FindAdminUser(ctx, user.Id); admin != nil {
		role = store.RoleMaster
	} else if support, _ := uow.UserRepository().FindSupportUser(ctx, user.Id); support != nil {
		role = store.RoleSupport
		if support.DisplayName != "" {
			displayName = support.DisplayName
		}
	}
	if role == "" {
		return nil, apperror.Forbidden("not a staff member")
	}

	s.sessions.Save(&store.StaffSession{
		UserId:      user.Id.String(),
		Email:       user.Email,
		FullName:    user.FullName,
		DisplayName: displayName,
		Role:        role,
	})

	return &dto.SessionResponse{
		UserId:      user.Id,
		Email:       user.Email,
		FullName:    user.FullName,
		DisplayName: displayName,
		Role:        role,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userId uuid.UUID) error {
	s.sessions.Delete(userId.String())
	return nil
}

func signStaffToken(userId uuid.UUID, role, displayName string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":      userId.String(),
		"role":         role,
		"display_name": displayName,
		"exp":          time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(serverutils.JWTSecret())
}
