package contract

import (
	"context"
	"time"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Claim is the single atomic conditional update that enforces
	// at-most-one-claimant: it matches only rows still open with no
	// claimant and returns the number of rows it changed.
	Claim(ctx context.Context, id uuid.UUID, agentName string) (int64, error)

	// Close moves a claimed conversation to closed. Closed rows never
	// match, so the transition cannot run backwards.
	Close(ctx context.Context, id uuid.UUID) (int64, error)

	// MarkAgentSeen stamps the agent-side last-seen timestamp.
	MarkAgentSeen(ctx context.Context, id uuid.UUID, seenAt time.Time) (int64, error)

	// MarkClientSeen stamps the client-side last-seen timestamp, matching
	// id plus client token. The row count tells the caller whether the
	// update matched (the mark_client_seen remote procedure contract).
	MarkClientSeen(ctx context.Context, id uuid.UUID, clientToken string, seenAt time.Time) (int64, error)
}
