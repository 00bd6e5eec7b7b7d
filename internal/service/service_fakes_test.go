package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/internal/repository/contract"
	"redoma-support-be/internal/repository/specification"
	"redoma-support-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repository fakes interpreting the same specifications the gorm
// implementations translate to SQL. Shared by the service tests.

type fakeLogger struct{}

func (fakeLogger) Debug(module, message string, details map[string]interface{}) {}
func (fakeLogger) Info(module, message string, details map[string]interface{})  {}
func (fakeLogger) Warn(module, message string, details map[string]interface{})  {}
func (fakeLogger) Error(module, message string, details map[string]interface{}) {}
func (fakeLogger) Sync() error                                                  { return nil }
func (fakeLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (fakeLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

type publishedRow struct {
	Action         string
	Table          string
	ConversationId string
	ClientToken    string
}

type fakeFeedPublisher struct {
	rows []publishedRow
}

func (p *fakeFeedPublisher) record(action, table, conversationId, clientToken string) {
	p.rows = append(p.rows, publishedRow{Action: action, Table: table, ConversationId: conversationId, ClientToken: clientToken})
}

func (p *fakeFeedPublisher) RowInserted(ctx context.Context, table string, row interface{}, conversationId, clientToken string) {
	p.record("INSERT", table, conversationId, clientToken)
}

func (p *fakeFeedPublisher) RowUpdated(ctx context.Context, table string, row interface{}, conversationId, clientToken string) {
	p.record("UPDATE", table, conversationId, clientToken)
}

func (p *fakeFeedPublisher) RowDeleted(ctx context.Context, table string, row interface{}, conversationId, clientToken string) {
	p.record("DELETE", table, conversationId, clientToken)
}

func (p *fakeFeedPublisher) forTable(table string) []publishedRow {
	var out []publishedRow
	for _, r := range p.rows {
		if r.Table == table {
			out = append(out, r)
		}
	}
	return out
}

type fakeClientMessagePublisher struct {
	events []ClientMessageEvent
}

func (p *fakeClientMessagePublisher) PublishClientMessage(ctx context.Context, event ClientMessageEvent) {
	p.events = append(p.events, event)
}

type fakeEmailService struct {
	notices []string
}

func (s *fakeEmailService) SendNewConversationNotice(toEmail, communityId, conversationId string) error {
	s.notices = append(s.notices, conversationId)
	return nil
}

type uploadedObject struct {
	Bucket      string
	Path        string
	ContentType string
}

type fakeStorage struct {
	uploads []uploadedObject
	failErr error
}

func (s *fakeStorage) Upload(ctx context.Context, bucket, objectPath string, reader io.Reader, size int64, contentType string) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.uploads = append(s.uploads, uploadedObject{Bucket: bucket, Path: objectPath, ContentType: contentType})
	return nil
}

func (s *fakeStorage) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://cdn.test/%s/%s", bucket, objectPath)
}

type fakeConversationRepo struct {
	conversations map[uuid.UUID]*entity.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uuid.UUID]*entity.Conversation)}
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.conversations[conversation.Id] = conversation
	return nil
}

func (r *fakeConversationRepo) matches(c *entity.Conversation, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if c.Id != s.ID {
				return false
			}
		case specification.ByClientToken:
			if c.ClientToken == nil || *c.ClientToken != s.ClientToken {
				return false
			}
		case specification.ByStatus:
			if string(c.Status) != s.Status {
				return false
			}
		case specification.ByCommunityID:
			if c.CommunityId != s.CommunityID {
				return false
			}
		}
	}
	return true
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, c := range r.conversations {
		if r.matches(c, specs) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	for _, c := range r.conversations {
		if r.matches(c, specs) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeConversationRepo) Claim(ctx context.Context, id uuid.UUID, agentName string) (int64, error) {
	c, ok := r.conversations[id]
	if !ok || c.Status != entity.ConversationStatusOpen || c.ClaimedBy != nil {
		return 0, nil
	}
	c.Status = entity.ConversationStatusClaimed
	c.ClaimedBy = &agentName
	return 1, nil
}

func (r *fakeConversationRepo) Close(ctx context.Context, id uuid.UUID) (int64, error) {
	c, ok := r.conversations[id]
	if !ok || c.Status != entity.ConversationStatusClaimed {
		return 0, nil
	}
	c.Status = entity.ConversationStatusClosed
	return 1, nil
}

func (r *fakeConversationRepo) MarkAgentSeen(ctx context.Context, id uuid.UUID, seenAt time.Time) (int64, error) {
	c, ok := r.conversations[id]
	if !ok {
		return 0, nil
	}
	c.AgentLastSeenAt = &seenAt
	return 1, nil
}

func (r *fakeConversationRepo) MarkClientSeen(ctx context.Context, id uuid.UUID, clientToken string, seenAt time.Time) (int64, error) {
	c, ok := r.conversations[id]
	if !ok || c.ClientToken == nil || *c.ClientToken != clientToken {
		return 0, nil
	}
	c.ClientLastSeenAt = &seenAt
	return 1, nil
}

type fakeMessageRepo struct {
	messages []*entity.Message
}

func (r *fakeMessageRepo) matches(m *entity.Message, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if m.Id != s.ID {
				return false
			}
		case specification.ByConversationID:
			if m.ConversationId != s.ConversationID {
				return false
			}
		case specification.FilterBy:
			if s.Field == "sender_type" && string(m.SenderType) != fmt.Sprint(s.Value) {
				return false
			}
		}
	}
	return true
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	for _, m := range r.messages {
		if r.matches(m, specs) {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, m := range r.messages {
		if r.matches(m, specs) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeProviderRepo struct {
	providers map[uuid.UUID]*entity.Provider
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{providers: make(map[uuid.UUID]*entity.Provider)}
}

func (r *fakeProviderRepo) matches(p *entity.Provider, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if p.Id != s.ID {
				return false
			}
		case specification.ActiveOnly:
			if !p.IsActive {
				return false
			}
		case specification.ByProviderType:
			if string(p.Type) != s.Type {
				return false
			}
		}
	}
	return true
}

func (r *fakeProviderRepo) Create(ctx context.Context, provider *entity.Provider) error {
	r.providers[provider.Id] = provider
	return nil
}

func (r *fakeProviderRepo) Update(ctx context.Context, provider *entity.Provider) error {
	r.providers[provider.Id] = provider
	return nil
}

func (r *fakeProviderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.providers, id)
	return nil
}

func (r *fakeProviderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Provider, error) {
	for _, p := range r.providers {
		if r.matches(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProviderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Provider, error) {
	var out []*entity.Provider
	for _, p := range r.providers {
		if r.matches(p, specs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProviderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeUserRepo struct {
	users       map[uuid.UUID]*entity.User
	supportTeam map[uuid.UUID]*entity.SupportUser
	admins      map[uuid.UUID]*entity.AdminUser
	communities map[string]*entity.Community
	members     map[uuid.UUID]*entity.Member
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       make(map[uuid.UUID]*entity.User),
		supportTeam: make(map[uuid.UUID]*entity.SupportUser),
		admins:      make(map[uuid.UUID]*entity.AdminUser),
		communities: make(map[string]*entity.Community),
		members:     make(map[uuid.UUID]*entity.Member),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.users {
		ok := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				if u.Id != s.ID {
					ok = false
				}
			case specification.ByEmail:
				if u.Email != s.Email {
					ok = false
				}
			}
		}
		if ok {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindSupportUser(ctx context.Context, userId uuid.UUID) (*entity.SupportUser, error) {
	return r.supportTeam[userId], nil
}

func (r *fakeUserRepo) FindAdminUser(ctx context.Context, userId uuid.UUID) (*entity.AdminUser, error) {
	return r.admins[userId], nil
}

func (r *fakeUserRepo) CreateSupportUser(ctx context.Context, supportUser *entity.SupportUser) error {
	r.supportTeam[supportUser.UserId] = supportUser
	return nil
}

func (r *fakeUserRepo) CreateAdminUser(ctx context.Context, adminUser *entity.AdminUser) error {
	r.admins[adminUser.UserId] = adminUser
	return nil
}

func (r *fakeUserRepo) FindMember(ctx context.Context, specs ...specification.Specification) (*entity.Member, error) {
	for _, m := range r.members {
		ok := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				if m.Id != s.ID {
					ok = false
				}
			case specification.FilterBy:
				if s.Field == "community_id" && m.CommunityId != s.Value {
					ok = false
				}
			}
		}
		if ok {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindCommunity(ctx context.Context, id string) (*entity.Community, error) {
	return r.communities[id], nil
}

type fakeErrorLogRepo struct {
	entries []*entity.ErrorLog
	failErr error
}

func (r *fakeErrorLogRepo) Create(ctx context.Context, log *entity.ErrorLog) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.entries = append(r.entries, log)
	return nil
}

func (r *fakeErrorLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ErrorLog, error) {
	return r.entries, nil
}

type fakeUnitOfWork struct {
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	providers     *fakeProviderRepo
	users         *fakeUserRepo
	errorLogs     *fakeErrorLogRepo

	begun      int
	committed  int
	rolledBack int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		conversations: newFakeConversationRepo(),
		messages:      &fakeMessageRepo{},
		providers:     newFakeProviderRepo(),
		users:         newFakeUserRepo(),
		errorLogs:     &fakeErrorLogRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.begun++; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed++; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rolledBack++; return nil }

func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return u.conversations
}
func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository   { return u.messages }
func (u *fakeUnitOfWork) ProviderRepository() contract.ProviderRepository { return u.providers }
func (u *fakeUnitOfWork) UserRepository() contract.UserRepository         { return u.users }
func (u *fakeUnitOfWork) ErrorLogRepository() contract.ErrorLogRepository { return u.errorLogs }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: newFakeUnitOfWork()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func strPtr(s string) *string { return &s }
