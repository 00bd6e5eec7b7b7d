package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Subscription describes which row changes a socket wants. A socket either
// belongs to an anonymous visitor (ClientToken set) or to staff (Role set),
// never both.
type Subscription struct {
	// Tables the socket listens to. Empty means all tables the caller may see.
	Tables map[string]bool

	// ConversationId narrows conversation and message changes to one thread.
	ConversationId string

	// Role is "support" or "master" for authenticated staff sockets.
	Role string

	// ClientToken scopes anonymous sockets to their own conversations.
	ClientToken string
}

// Matches reports whether ev should be delivered on this subscription.
func (s Subscription) Matches(ev events.RowChange) bool {
	if len(s.Tables) > 0 && !s.Tables[ev.Table] {
		return false
	}
	if s.ConversationId != "" && ev.ConversationId != "" && ev.ConversationId != s.ConversationId {
		return false
	}

	// The provider catalog is public. Everything else needs staff role or
	// proof of ownership via the client token.
	if ev.Table == constant.TableProviders {
		return true
	}
	if s.Role != "" {
		return true
	}
	return s.ClientToken != "" && s.ClientToken == ev.ClientToken
}

type Hub struct {
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	// instanceId marks events this hub published to Redis, so its own
	// sockets are not served the same event a second time off the channel.
	instanceId string

	logger logger.ILogger
}

// clusterEnvelope is the wire shape on the Redis channel.
type clusterEnvelope struct {
	Origin string           `json:"origin"`
	Change events.RowChange `json:"change"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Socket registered", map[string]interface{}{
				"role":         client.Sub.Role,
				"conversation": client.Sub.ConversationId,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastRowChange delivers a change to every matching local socket and
// forwards it to the other instances over Redis.
func (h *Hub) BroadcastRowChange(ev events.RowChange) {
	h.deliverLocal(ev)

	if h.rdb != nil {
		payload, err := json.Marshal(clusterEnvelope{Origin: h.instanceId, Change: ev})
		if err != nil {
			return
		}
		h.rdb.Publish(context.Background(), constant.FeedClusterChannel, payload)
	}
}

func (h *Hub) deliverLocal(ev events.RowChange) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "row_change",
		"data": ev,
	})
	if err != nil {
		return
	}

	var stalled []*Client
	h.mu.RLock()
	for client := range h.clients {
		if !client.Sub.Matches(ev) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.logger.Warn("Hub", "Socket buffer full, dropping connection", map[string]interface{}{
			"role": client.Sub.Role,
		})
		h.unregister <- client
	}
}

// subscribeToRedis receives changes published by other instances. Scoping is
// re-evaluated locally, so the wire payload is just the raw change.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, constant.FeedClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterPayload([]byte(msg.Payload))
	}
}

func (h *Hub) handleClusterPayload(payload []byte) {
	var env clusterEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Printf("cluster feed parse error: %v", err)
		return
	}
	// Our own sockets already got this on the direct path.
	if env.Origin == h.instanceId {
		return
	}
	h.deliverLocal(env.Change)
}
