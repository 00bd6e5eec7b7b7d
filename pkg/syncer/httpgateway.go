package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"redoma-support-be/pkg/events"

	"github.com/gorilla/websocket"
)

// HTTPGateway talks to the backend REST and feed endpoints. Build it with
// exactly one credential: ForClient, ForSupport or ForMaster.
type HTTPGateway struct {
	baseURL     string
	httpClient  *http.Client
	clientToken string
	bearerToken string
	role        Role
}

// ForClient builds an anonymous gateway authenticated by the client token.
func ForClient(baseURL, clientToken string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		clientToken: clientToken,
		role:        RoleClient,
	}
}

// ForSupport builds a staff gateway with a support JWT.
func ForSupport(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		bearerToken: token,
		role:        RoleSupport,
	}
}

// ForMaster builds a staff gateway with a master JWT.
func ForMaster(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		bearerToken: token,
		role:        RoleMaster,
	}
}

func (g *HTTPGateway) Role() Role { return g.role }

// conversationsPath picks the role-specific route prefix.
func (g *HTTPGateway) conversationsPath() string {
	if g.role == RoleClient {
		return "/api/chat/v1/conversations"
	}
	return "/api/support/v1/conversations"
}

func (g *HTTPGateway) CreateConversation(ctx context.Context, communityId, firstMessage string) (*Conversation, error) {
	body := map[string]string{"community_id": communityId, "first_message": firstMessage}
	var out Conversation
	if err := g.doJSON(ctx, http.MethodPost, "/api/chat/v1/conversations", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) ListConversations(ctx context.Context) ([]*Conversation, error) {
	var out []*Conversation
	if err := g.doJSON(ctx, http.MethodGet, g.conversationsPath(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGateway) ListMessages(ctx context.Context, conversationId string) ([]*Message, error) {
	var out []*Message
	path := fmt.Sprintf("%s/%s/messages", g.conversationsPath(), conversationId)
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGateway) SendMessage(ctx context.Context, conversationId, content string) (*Message, error) {
	var out Message
	path := fmt.Sprintf("%s/%s/messages", g.conversationsPath(), conversationId)
	if err := g.doJSON(ctx, http.MethodPost, path, map[string]string{"content": content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) SendImage(ctx context.Context, conversationId string, upload *ImageUpload) (*Message, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", upload.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, upload.Reader); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%s/%s/messages/image", g.conversationsPath(), conversationId)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	g.authorize(req)

	var out Message
	if err := g.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) Claim(ctx context.Context, conversationId string) (*Conversation, error) {
	var out Conversation
	path := fmt.Sprintf("/api/support/v1/conversations/%s/claim", conversationId)
	if err := g.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) CloseConversation(ctx context.Context, conversationId string) (*Conversation, error) {
	var out Conversation
	path := fmt.Sprintf("/api/support/v1/conversations/%s/close", conversationId)
	if err := g.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) MarkSeen(ctx context.Context, conversationId string) error {
	var path string
	if g.role == RoleClient {
		path = fmt.Sprintf("/api/chat/v1/conversations/%s/mark_client_seen", conversationId)
	} else {
		path = fmt.Sprintf("/api/support/v1/conversations/%s/mark_seen", conversationId)
	}
	return g.doJSON(ctx, http.MethodPost, path, nil, nil)
}

func (g *HTTPGateway) ListProviders(ctx context.Context) ([]*Provider, error) {
	var out []*Provider
	path := "/api/provider/v1/active"
	if g.role == RoleMaster {
		path = "/api/provider/v1/admin"
	}
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenFeed dials the websocket feed with this gateway's credential.
func (g *HTTPGateway) OpenFeed(ctx context.Context, opts FeedOptions) (Feed, error) {
	wsURL := strings.Replace(g.baseURL, "http", "ws", 1) + "/api/feed"

	query := url.Values{}
	if g.role == RoleClient {
		query.Set("client_token", g.clientToken)
	} else {
		query.Set("token", g.bearerToken)
	}
	if len(opts.Tables) > 0 {
		query.Set("tables", strings.Join(opts.Tables, ","))
	}
	if opts.ConversationId != "" {
		query.Set("conversation", opts.ConversationId)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, &MutationError{Code: CodeNetwork, Message: err.Error()}
	}

	feed := &wsFeed{conn: conn, events: make(chan events.RowChange, 64)}
	go feed.readLoop()
	return feed, nil
}

type wsFeed struct {
	conn   *websocket.Conn
	events chan events.RowChange
}

func (f *wsFeed) Events() <-chan events.RowChange { return f.events }

func (f *wsFeed) Close() error {
	return f.conn.Close()
}

func (f *wsFeed) readLoop() {
	defer close(f.events)
	for {
		var frame struct {
			Type string           `json:"type"`
			Data events.RowChange `json:"data"`
		}
		if err := f.conn.ReadJSON(&frame); err != nil {
			return
		}
		if frame.Type != "row_change" {
			continue
		}
		f.events <- frame.Data
	}
}

type responseEnvelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *HTTPGateway) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	g.authorize(req)

	return g.send(req, out)
}

func (g *HTTPGateway) authorize(req *http.Request) {
	if g.role == RoleClient {
		req.Header.Set("X-Client-Token", g.clientToken)
		return
	}
	req.Header.Set("Authorization", "Bearer "+g.bearerToken)
}

func (g *HTTPGateway) send(req *http.Request, out interface{}) error {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &MutationError{Code: CodeNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &MutationError{Code: CodeNetwork, Message: fmt.Sprintf("malformed response (%d)", resp.StatusCode)}
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		code := envelope.Code
		if code == "" {
			code = codeFromStatus(resp.StatusCode)
		}
		return &MutationError{Code: code, Message: envelope.Message}
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

func codeFromStatus(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodeNotFound
	default:
		return "server_error"
	}
}
