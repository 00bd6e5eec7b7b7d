package handler

import (
	"strings"

	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/internal/pkg/serverutils"
	internalWS "redoma-support-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// FeedHandler upgrades connections onto the change-feed hub. The socket
// identifies itself either with a staff JWT or with a client token; the
// resulting subscription decides which row changes it receives.
type FeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewFeedHandler(hub *internalWS.Hub, log logger.ILogger) *FeedHandler {
	return &FeedHandler{hub: hub, logger: log}
}

func (h *FeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/feed", h.ServeWs)
}

// ServeWs handles the feed handshake. Query params:
//
//	token        staff JWT (query param, browsers cannot set ws headers)
//	client_token anonymous visitor token
//	tables       comma separated table filter
//	conversation optional conversation id filter
func (h *FeedHandler) ServeWs(c *fiber.Ctx) error {
	sub := internalWS.Subscription{}

	if tokenStr := c.Query("token"); tokenStr != "" {
		role, err := h.parseStaffRole(tokenStr)
		if err != nil {
			h.logger.Warn("FeedHandler", "Invalid token in feed handshake", map[string]interface{}{"error": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		sub.Role = role
	} else if clientToken := c.Query("client_token"); clientToken != "" {
		if _, err := uuid.Parse(clientToken); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid client token"})
		}
		sub.ClientToken = clientToken
	} else {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing credentials (query 'token' or 'client_token')"})
	}

	if tables := c.Query("tables"); tables != "" {
		sub.Tables = make(map[string]bool)
		for _, t := range strings.Split(tables, ",") {
			if t = strings.TrimSpace(t); t != "" {
				sub.Tables[t] = true
			}
		}
	}
	sub.ConversationId = c.Query("conversation")

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(h.hub, conn, sub)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *FeedHandler) parseStaffRole(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return serverutils.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", fiber.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fiber.ErrUnauthorized
	}
	return role, nil
}
