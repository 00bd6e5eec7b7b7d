package service

import (
	"context"
	"time"

	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/internal/repository/specification"
	"redoma-support-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IErrorLogService interface {
	// Report never returns an error to the caller: a broken error sink
	// must not break the flow that was already failing.
	Report(ctx context.Context, req *dto.ReportErrorRequest)

	List(ctx context.Context, limit, offset int) ([]*dto.ErrorLogResponse, error)
}

type errorLogService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewErrorLogService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IErrorLogService {
	return &errorLogService{uowFactory: uowFactory, logger: log}
}

func (s *errorLogService) Report(ctx context.Context, req *dto.ReportErrorRequest) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry := &entity.ErrorLog{
		Id:             uuid.New(),
		Source:         req.Source,
		Environment:    req.Environment,
		ErrorMessage:   req.ErrorMessage,
		ErrorCode:      optional(req.ErrorCode),
		ErrorStack:     optional(req.ErrorStack),
		Route:          optional(req.Route),
		Method:         optional(req.Method),
		TableName:      optional(req.TableName),
		FunctionName:   optional(req.FunctionName),
		ClientToken:    optional(req.ClientToken),
		SessionId:      optional(req.SessionId),
		RequestPayload: req.RequestPayload,
		ExtraContext:   req.ExtraContext,
		CreatedAt:      time.Now(),
	}
	if req.UserId != "" {
		if userId, err := uuid.Parse(req.UserId); err == nil {
			entry.UserId = &userId
		}
	}

	if err := uow.ErrorLogRepository().Create(ctx, entry); err != nil {
		s.logger.Warn("ErrorLogService", "Failed to persist error report", map[string]interface{}{
			"source": req.Source,
			"error":  err.Error(),
		})
	}
}

func (s *errorLogService) List(ctx context.Context, limit, offset int) ([]*dto.ErrorLogResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	logs, err := uow.ErrorLogRepository().FindAll(ctx,
		specification.OrderByCreatedAt{Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ErrorLogResponse, 0, len(logs))
	for _, l := range logs {
		res := &dto.ErrorLogResponse{
			Id:           l.Id,
			Source:       l.Source,
			Environment:  l.Environment,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
		if l.Route != nil {
			res.Route = *l.Route
		}
		result = append(result, res)
	}
	return result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
