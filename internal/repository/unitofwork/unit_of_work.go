package unitofwork

import (
	"context"

	"redoma-support-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	ProviderRepository() contract.ProviderRepository
	UserRepository() contract.UserRepository
	ErrorLogRepository() contract.ErrorLogRepository
}
