package implementation

import (
	"context"
	"errors"
	"time"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/mapper"
	"redoma-support-be/internal/model"
	"redoma-support-be/internal/repository/contract"
	"redoma-support-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.Conversation) error {
	m := r.mapper.ToModel(conversation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	var m model.Conversation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConversationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var models []*model.Conversation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ConversationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Conversation{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Claim sets the claimant only when the row is still open and unclaimed.
// RowsAffected == 0 means another agent got there first (or the id is gone);
// the caller turns that into a typed error.
func (r *ConversationRepositoryImpl) Claim(ctx context.Context, id uuid.UUID, agentName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ? AND status = ? AND claimed_by IS NULL", id, string(entity.ConversationStatusOpen)).
		Updates(map[string]interface{}{
			"status":     string(entity.ConversationStatusClaimed),
			"claimed_by": agentName,
		})
	return result.RowsAffected, result.Error
}

func (r *ConversationRepositoryImpl) Close(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ? AND status = ?", id, string(entity.ConversationStatusClaimed)).
		Update("status", string(entity.ConversationStatusClosed))
	return result.RowsAffected, result.Error
}

func (r *ConversationRepositoryImpl) MarkAgentSeen(ctx context.Context, id uuid.UUID, seenAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("agent_last_seen_at", seenAt)
	return result.RowsAffected, result.Error
}

func (r *ConversationRepositoryImpl) MarkClientSeen(ctx context.Context, id uuid.UUID, clientToken string, seenAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ? AND client_token = ?", id, clientToken).
		Update("client_last_seen_at", seenAt)
	return result.RowsAffected, result.Error
}
