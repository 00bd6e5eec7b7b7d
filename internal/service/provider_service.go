package service

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/pkg/apperror"
	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/internal/repository/specification"
	"redoma-support-be/internal/repository/unitofwork"
	"redoma-support-be/pkg/storage"

	"github.com/google/uuid"
)

type IProviderService interface {
	// ListActive is the public catalog shown to clients.
	ListActive(ctx context.Context) ([]*dto.ProviderResponse, error)

	// ListAll includes inactive rows, for the admin panel.
	ListAll(ctx context.Context) ([]*dto.ProviderResponse, error)

	Get(ctx context.Context, id uuid.UUID) (*dto.ProviderResponse, error)
	Create(ctx context.Context, req *dto.CreateProviderRequest) (*dto.ProviderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProviderRequest) (*dto.ProviderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UploadLogo stores the logo and stamps its public URL on the row.
	UploadLogo(ctx context.Context, id uuid.UUID, upload *ImageUpload) (*dto.ProviderResponse, error)

	// EnsureSeeded inserts the default catalog on an empty table.
	EnsureSeeded(ctx context.Context) error
}

type providerService struct {
	uowFactory    unitofwork.RepositoryFactory
	feedPublisher IFeedPublisher
	storage       storage.ObjectStorage
	logger        logger.ILogger
}

func NewProviderService(
	uowFactory unitofwork.RepositoryFactory,
	feedPublisher IFeedPublisher,
	objectStorage storage.ObjectStorage,
	log logger.ILogger,
) IProviderService {
	return &providerService{
		uowFactory:    uowFactory,
		feedPublisher: feedPublisher,
		storage:       objectStorage,
		logger:        log,
	}
}

func (s *providerService) ListActive(ctx context.Context) ([]*dto.ProviderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	providers, err := uow.ProviderRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}
	return toProviderResponses(providers), nil
}

func (s *providerService) ListAll(ctx context.Context) ([]*dto.ProviderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	providers, err := uow.ProviderRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}
	return toProviderResponses(providers), nil
}

func (s *providerService) Get(ctx context.Context, id uuid.UUID) (*dto.ProviderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperror.NotFound("provider not found")
	}
	return toProviderResponse(provider), nil
}

func (s *providerService) Create(ctx context.Context, req *dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	provider := &entity.Provider{
		Id:               uuid.New(),
		Name:             req.Name,
		Type:             entity.ProviderType(req.Type),
		Category:         req.Category,
		Description:      req.Description,
		CashbackPercent:  req.CashbackPercent,
		RevenueShareText: req.RevenueShareText,
		Link:             req.Link,
		IsActive:         isActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uow.ProviderRepository().Create(ctx, provider); err != nil {
		return nil, err
	}

	res := toProviderResponse(provider)
	s.feedPublisher.RowInserted(ctx, constant.TableProviders, res, "", "")
	return res, nil
}

func (s *providerService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperror.NotFound("provider not found")
	}

	if req.Name != nil {
		provider.Name = *req.Name
	}
	if req.Type != nil {
		provider.Type = entity.ProviderType(*req.Type)
	}
	if req.Category != nil {
		provider.Category = *req.Category
	}
	if req.Description != nil {
		provider.Description = *req.Description
	}
	if req.CashbackPercent != nil {
		provider.CashbackPercent = *req.CashbackPercent
	}
	if req.RevenueShareText != nil {
		provider.RevenueShareText = *req.RevenueShareText
	}
	if req.Link != nil {
		provider.Link = *req.Link
	}
	if req.IsActive != nil {
		provider.IsActive = *req.IsActive
	}
	provider.UpdatedAt = time.Now()

	if err := uow.ProviderRepository().Update(ctx, provider); err != nil {
		return nil, err
	}

	res := toProviderResponse(provider)
	s.feedPublisher.RowUpdated(ctx, constant.TableProviders, res, "", "")
	return res, nil
}

func (s *providerService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if provider == nil {
		return apperror.NotFound("provider not found")
	}

	if err := uow.ProviderRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.feedPublisher.RowDeleted(ctx, constant.TableProviders, toProviderResponse(provider), "", "")
	return nil
}

func (s *providerService) UploadLogo(ctx context.Context, id uuid.UUID, upload *ImageUpload) (*dto.ProviderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperror.NotFound("provider not found")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return nil, apperror.BadRequest("only image uploads are accepted")
	}

	ext := filepath.Ext(upload.FileName)
	if ext == "" {
		ext = ".png"
	}
	objectPath := fmt.Sprintf("logos/%d-%d%s", time.Now().UnixMilli(), rand.Intn(100000), ext)

	if err := s.storage.Upload(ctx, constant.BucketProviderLogos, objectPath, upload.Reader, upload.Size, upload.ContentType); err != nil {
		return nil, apperror.Wrap(502, "upload_failed", "failed to store logo", err)
	}

	logoURL := s.storage.PublicURL(constant.BucketProviderLogos, objectPath)
	provider.LogoURL = &logoURL
	provider.UpdatedAt = time.Now()

	if err := uow.ProviderRepository().Update(ctx, provider); err != nil {
		return nil, err
	}

	res := toProviderResponse(provider)
	s.feedPublisher.RowUpdated(ctx, constant.TableProviders, res, "", "")
	return res, nil
}

func (s *providerService) EnsureSeeded(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.ProviderRepository().Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []*entity.Provider{
		{
			Name:            "Mercado Livre",
			Type:            entity.ProviderTypeEcommerce,
			Category:        "Marketplace",
			Description:     "Compre com cashback para a comunidade.",
			CashbackPercent: 5.0,
			Link:            "https://www.mercadolivre.com.br",
		},
		{
			Name:            "Shopee",
			Type:            entity.ProviderTypeEcommerce,
			Category:        "Marketplace",
			Description:     "Compre com cashback para a comunidade.",
			CashbackPercent: 5.0,
			Link:            "https://shopee.com.br",
		},
		{
			Name:             "Redoma Reformas",
			Type:             entity.ProviderTypeService,
			Category:         "Reformas",
			Description:      "Reformas e reparos com parceiros da Redoma.",
			CashbackPercent:  5.0,
			RevenueShareText: "Parte da receita volta para a comunidade.",
		},
	}

	now := time.Now()
	for _, seed := range seeds {
		seed.Id = uuid.New()
		seed.IsActive = true
		seed.CreatedAt = now
		seed.UpdatedAt = now
		if err := uow.ProviderRepository().Create(ctx, seed); err != nil {
			return err
		}
	}

	s.logger.Info("ProviderService", "Seeded default provider catalog", map[string]interface{}{"count": len(seeds)})
	return nil
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	logoURL := ""
	if p.LogoURL != nil {
		logoURL = *p.LogoURL
	}
	return &dto.ProviderResponse{
		Id:               p.Id,
		Name:             p.Name,
		Type:             string(p.Type),
		Category:         p.Category,
		Description:      p.Description,
		CashbackPercent:  p.CashbackPercent,
		RevenueShareText: p.RevenueShareText,
		Link:             p.Link,
		LogoURL:          logoURL,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toProviderResponses(providers []*entity.Provider) []*dto.ProviderResponse {
	result := make([]*dto.ProviderResponse, 0, len(providers))
	for _, p := range providers {
		result = append(result, toProviderResponse(p))
	}
	return result
}
