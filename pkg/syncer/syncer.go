package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"redoma-support-be/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config wires a Syncer. Everything is injected explicitly; a Syncer holds
// no process-global state, so two of them (say a support view and a master
// view) can live in one process without touching each other.
type Config struct {
	Gateway Gateway

	// Tokens is required for RoleClient, ignored for staff roles.
	Tokens *TokenStore

	Logger *zap.Logger

	// MarkSeenInterval is how often the active conversation is stamped as
	// seen. Zero means 10 seconds.
	MarkSeenInterval time.Duration
}

// Syncer keeps a local mirror of the remote tables for one role and keeps
// it converged: fetches seed the mirror, mutations update it optimistically
// and the change feed reconciles both, deduplicating by row id.
type Syncer struct {
	gateway          Gateway
	tokens           *TokenStore
	logger           *zap.Logger
	markSeenInterval time.Duration

	mu            sync.RWMutex
	generation    uint64
	conversations *Collection[*Conversation]
	messages      map[string]*Collection[*Message]
	providers     *Collection[*Provider]
	active        string

	feed   Feed
	cancel context.CancelFunc
}

func New(cfg Config) (*Syncer, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("syncer: gateway is required")
	}
	role := roleOf(cfg.Gateway)
	if role == RoleClient && cfg.Tokens == nil {
		return nil, errors.New("syncer: token store is required for the client role")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.MarkSeenInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	s := &Syncer{
		gateway:          cfg.Gateway,
		tokens:           cfg.Tokens,
		logger:           logger,
		markSeenInterval: interval,
		conversations:    NewCollection[*Conversation](),
		messages:         make(map[string]*Collection[*Message]),
		providers:        NewCollection[*Provider](),
	}
	if role == RoleClient {
		s.active = cfg.Tokens.ActiveConversation()
	}
	return s, nil
}

// Role reports which credential context this syncer runs under.
func (s *Syncer) Role() Role {
	return roleOf(s.gateway)
}

func roleOf(g Gateway) Role {
	type roled interface{ Role() Role }
	if r, ok := g.(roled); ok {
		return r.Role()
	}
	return RoleClient
}

// Bootstrap tears down any previous state and reloads everything the role
// can see, then reopens the live feed. Fetches that started before the
// teardown are tagged with the old generation and their results dropped.
func (s *Syncer) Bootstrap(ctx context.Context) error {
	s.teardown()

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.conversations.Clear()
	s.providers.Clear()
	s.messages = make(map[string]*Collection[*Message])
	s.mu.Unlock()

	role := s.Role()

	// The provider catalog is visible to clients and masters.
	if role != RoleSupport {
		providers, err := s.gateway.ListProviders(ctx)
		if err != nil {
			return err
		}
		s.applyProviders(gen, providers)
	}

	conversations, err := s.gateway.ListConversations(ctx)
	if err != nil {
		return err
	}
	s.applyConversations(gen, conversations)

	if active := s.ActiveConversation(); active != "" {
		if err := s.RefreshMessages(ctx, active); err != nil {
			// The pointer may reference a conversation that no longer
			// exists; drop it instead of failing the bootstrap.
			if me, ok := AsMutationError(err); ok && me.Code == CodeNotFound {
				_ = s.SetActiveConversation(ctx, "")
			} else {
				return err
			}
		}
	}

	feedCtx, cancel := context.WithCancel(context.Background())
	feed, err := s.gateway.OpenFeed(feedCtx, FeedOptions{})
	if err != nil {
		cancel()
		s.logger.Warn("feed unavailable, running fetch-only", zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.feed = feed
	s.cancel = cancel
	s.mu.Unlock()

	go s.consumeFeed(gen, feed)
	go s.markSeenLoop(feedCtx)
	return nil
}

// Close stops the feed and background loops. The mirrored data stays
// readable.
func (s *Syncer) Close() error {
	s.teardown()
	return nil
}

func (s *Syncer) teardown() {
	s.mu.Lock()
	feed := s.feed
	cancel := s.cancel
	s.feed = nil
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if feed != nil {
		feed.Close()
	}
}

// Conversations returns the mirrored conversation list, oldest first.
func (s *Syncer) Conversations() []*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversations.Items()
}

// Messages returns the mirrored thread for one conversation.
func (s *Syncer) Messages(conversationId string) []*Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if coll, ok := s.messages[conversationId]; ok {
		return coll.Items()
	}
	return nil
}

// Providers returns the mirrored provider catalog.
func (s *Syncer) Providers() []*Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.providers.Items()
}

// ActiveConversation returns the currently focused conversation id.
func (s *Syncer) ActiveConversation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActiveConversation switches focus and pulls the newly focused thread
// from the server, so switching alone is enough to see it. For the client
// role the pointer is persisted so the next run reopens the same thread.
func (s *Syncer) SetActiveConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()

	if s.tokens != nil && s.Role() == RoleClient {
		s.tokens.SetActiveConversation(id)
	}
	if id == "" {
		return nil
	}
	return s.RefreshMessages(ctx, id)
}

// RefreshMessages refetches one thread from the server and reconciles it
// into the mirror.
func (s *Syncer) RefreshMessages(ctx context.Context, conversationId string) error {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	messages, err := s.gateway.ListMessages(ctx, conversationId)
	if err != nil {
		return err
	}
	s.applyMessages(gen, conversationId, messages)
	return nil
}

// StartConversation opens a new conversation with its first message and
// focuses it.
func (s *Syncer) StartConversation(ctx context.Context, communityId, firstMessage string) (*Conversation, error) {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	conversation, err := s.gateway.CreateConversation(ctx, communityId, firstMessage)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if gen == s.generation {
		s.conversations.Upsert(conversation)
	}
	s.mu.Unlock()

	// Focusing fetches the stored thread, which includes the automated
	// reply the server usually stores right behind the first message.
	if err := s.SetActiveConversation(ctx, conversation.Id); err != nil {
		s.logger.Warn("failed to load initial thread", zap.Error(err))
	}
	return conversation, nil
}

// SendMessage inserts a pending local entry immediately, then confirms it
// against the server. The confirmed row replaces the pending one, and the
// feed echo deduplicates on the server id.
func (s *Syncer) SendMessage(ctx context.Context, conversationId, content string) (*Message, error) {
	pending := &Message{
		Id:             uuid.NewString(),
		ConversationId: conversationId,
		SenderType:     s.senderType(),
		Kind:           "text",
		Content:        content,
		CreatedAt:      time.Now(),
		Pending:        true,
	}

	s.mu.Lock()
	gen := s.generation
	s.threadLocked(conversationId).Upsert(pending)
	s.mu.Unlock()

	confirmed, err := s.gateway.SendMessage(ctx, conversationId, content)

	s.mu.Lock()
	if gen == s.generation {
		s.threadLocked(conversationId).Remove(pending.Id)
		if err == nil {
			s.threadLocked(conversationId).Upsert(confirmed)
		}
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// The server may answer a client message with an automated reply out of
	// band; refetch the thread once so it shows up even when the feed is
	// down.
	if s.Role() == RoleClient {
		if rerr := s.RefreshMessages(ctx, conversationId); rerr != nil {
			s.logger.Debug("post-send refresh failed", zap.Error(rerr))
		}
	}
	return confirmed, nil
}

// SendImage uploads an image message. No optimistic entry is inserted: the
// row only exists once the object upload succeeded.
func (s *Syncer) SendImage(ctx context.Context, conversationId string, upload *ImageUpload) (*Message, error) {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	confirmed, err := s.gateway.SendImage(ctx, conversationId, upload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if gen == s.generation {
		s.threadLocked(conversationId).Upsert(confirmed)
	}
	s.mu.Unlock()
	return confirmed, nil
}

// Claim tries to take an open conversation. On CodeAlreadyClaimed the
// mirror is refreshed so the caller sees who won.
func (s *Syncer) Claim(ctx context.Context, conversationId string) (*Conversation, error) {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	conversation, err := s.gateway.Claim(ctx, conversationId)
	if err != nil {
		if me, ok := AsMutationError(err); ok && me.Code == CodeAlreadyClaimed {
			if fresh, ferr := s.gateway.ListConversations(ctx); ferr == nil {
				s.applyConversations(gen, fresh)
			}
		}
		return nil, err
	}

	s.mu.Lock()
	if gen == s.generation {
		s.conversations.Upsert(conversation)
	}
	s.mu.Unlock()
	return conversation, nil
}

// CloseConversation moves a claimed conversation to closed.
func (s *Syncer) CloseConversation(ctx context.Context, conversationId string) (*Conversation, error) {
	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	conversation, err := s.gateway.CloseConversation(ctx, conversationId)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if gen == s.generation {
		s.conversations.Upsert(conversation)
	}
	s.mu.Unlock()
	return conversation, nil
}

// MarkSeen stamps the active side's last-seen timestamp now, outside the
// periodic loop.
func (s *Syncer) MarkSeen(ctx context.Context, conversationId string) error {
	return s.gateway.MarkSeen(ctx, conversationId)
}

// ReadByPeer reports whether the other side of the conversation has seen
// msg: true iff their last-seen stamp is at or after the message time.
func ReadByPeer(conversation *Conversation, msg *Message) bool {
	var lastSeen *time.Time
	switch msg.SenderType {
	case "agent":
		lastSeen = conversation.ClientLastSeenAt
	case "client":
		lastSeen = conversation.AgentLastSeenAt
	default:
		return false
	}
	if lastSeen == nil {
		return false
	}
	return !lastSeen.Before(msg.CreatedAt)
}

func (s *Syncer) senderType() string {
	if s.Role() == RoleClient {
		return "client"
	}
	return "agent"
}

// threadLocked returns the message collection for a conversation; the
// caller holds s.mu.
func (s *Syncer) threadLocked(conversationId string) *Collection[*Message] {
	coll, ok := s.messages[conversationId]
	if !ok {
		coll = NewCollection[*Message]()
		s.messages[conversationId] = coll
	}
	return coll
}

func (s *Syncer) applyConversations(gen uint64, conversations []*Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	for _, c := range conversations {
		s.conversations.Upsert(c)
	}
}

func (s *Syncer) applyMessages(gen uint64, conversationId string, messages []*Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	coll := s.threadLocked(conversationId)
	for _, m := range messages {
		coll.Upsert(m)
	}
}

func (s *Syncer) applyProviders(gen uint64, providers []*Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	for _, p := range providers {
		s.providers.Upsert(p)
	}
}

func (s *Syncer) consumeFeed(gen uint64, feed Feed) {
	for ev := range feed.Events() {
		s.applyRowChange(gen, ev)
	}
}

func (s *Syncer) applyRowChange(gen uint64, ev events.RowChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}

	switch ev.Table {
	case "conversations":
		var row Conversation
		if err := json.Unmarshal(ev.Row, &row); err != nil {
			s.logger.Warn("bad conversation row in feed", zap.Error(err))
			return
		}
		if ev.Action == events.ActionDelete {
			s.conversations.Remove(row.Id)
			return
		}
		s.conversations.Upsert(&row)

	case "messages":
		var row Message
		if err := json.Unmarshal(ev.Row, &row); err != nil {
			s.logger.Warn("bad message row in feed", zap.Error(err))
			return
		}
		if ev.Action == events.ActionDelete {
			s.threadLocked(row.ConversationId).Remove(row.Id)
			return
		}
		s.threadLocked(row.ConversationId).Upsert(&row)

	case "providers":
		var row Provider
		if err := json.Unmarshal(ev.Row, &row); err != nil {
			s.logger.Warn("bad provider row in feed", zap.Error(err))
			return
		}
		if ev.Action == events.ActionDelete {
			s.providers.Remove(row.Id)
			return
		}
		s.providers.Upsert(&row)
	}
}

// markSeenLoop stamps the active conversation periodically while the feed
// is up.
func (s *Syncer) markSeenLoop(ctx context.Context) {
	ticker := time.NewTicker(s.markSeenInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			active := s.ActiveConversation()
			if active == "" {
				continue
			}
			callCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := s.gateway.MarkSeen(callCtx, active); err != nil {
				s.logger.Debug("mark seen failed", zap.String("conversation", active), zap.Error(err))
			}
			cancel()
		}
	}
}
