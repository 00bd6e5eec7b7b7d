package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"redoma-support-be/pkg/events"
)

// Role selects which credential context the syncer runs under. A syncer is
// built for exactly one role; switching roles means building a new one.
type Role string

const (
	RoleClient  Role = "client"
	RoleSupport Role = "support"
	RoleMaster  Role = "master"
)

// Conversation mirrors the server row as the feed delivers it.
type Conversation struct {
	Id               string     `json:"id"`
	CommunityId      string     `json:"community_id"`
	Status           string     `json:"status"`
	ClaimedBy        *string    `json:"claimed_by,omitempty"`
	ClientToken      *string    `json:"client_token,omitempty"`
	ClientLastSeenAt *time.Time `json:"client_last_seen_at,omitempty"`
	AgentLastSeenAt  *time.Time `json:"agent_last_seen_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (c *Conversation) Key() string         { return c.Id }
func (c *Conversation) SortTime() time.Time { return c.CreatedAt }

// Message mirrors the server row. Pending marks an optimistic local entry
// whose server write has not been confirmed yet.
type Message struct {
	Id             string    `json:"id"`
	ConversationId string    `json:"conversation_id"`
	SenderType     string    `json:"sender_type"`
	Kind           string    `json:"kind"`
	Content        string    `json:"content"`
	ImageURL       *string   `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	Pending bool `json:"-"`
}

func (m *Message) Key() string         { return m.Id }
func (m *Message) SortTime() time.Time { return m.CreatedAt }

type Provider struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Category         string    `json:"category,omitempty"`
	Description      string    `json:"description,omitempty"`
	CashbackPercent  float64   `json:"cashback_percent"`
	RevenueShareText string    `json:"revenue_share_text,omitempty"`
	Link             string    `json:"link,omitempty"`
	LogoURL          string    `json:"logo_url,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p *Provider) Key() string         { return p.Id }
func (p *Provider) SortTime() time.Time { return p.CreatedAt }

// ImageUpload carries an outgoing image file.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MutationError is the single failure type every mutation surfaces. Code is
// the machine-readable value the server responded with.
type MutationError struct {
	Code    string
	Message string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Well-known mutation error codes.
const (
	CodeAlreadyClaimed     = "already_claimed"
	CodeConversationClosed = "conversation_closed"
	CodeNotFound           = "not_found"
	CodeUnauthorized       = "unauthorized"
	CodeNetwork            = "network"
)

// AsMutationError extracts a MutationError if err carries one.
func AsMutationError(err error) (*MutationError, bool) {
	var me *MutationError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// Feed is a live stream of row changes scoped to the gateway's credentials.
type Feed interface {
	Events() <-chan events.RowChange
	Close() error
}

// FeedOptions narrows a feed subscription.
type FeedOptions struct {
	Tables         []string
	ConversationId string
}

// Gateway is the remote surface the syncer talks to. Every call runs in the
// single credential context the gateway was built with; client and staff
// credentials are never mixed on one gateway.
type Gateway interface {
	CreateConversation(ctx context.Context, communityId, firstMessage string) (*Conversation, error)
	ListConversations(ctx context.Context) ([]*Conversation, error)
	ListMessages(ctx context.Context, conversationId string) ([]*Message, error)
	SendMessage(ctx context.Context, conversationId, content string) (*Message, error)
	SendImage(ctx context.Context, conversationId string, upload *ImageUpload) (*Message, error)
	Claim(ctx context.Context, conversationId string) (*Conversation, error)
	CloseConversation(ctx context.Context, conversationId string) (*Conversation, error)
	MarkSeen(ctx context.Context, conversationId string) error
	ListProviders(ctx context.Context) ([]*Provider, error)
	OpenFeed(ctx context.Context, opts FeedOptions) (Feed, error)
}
