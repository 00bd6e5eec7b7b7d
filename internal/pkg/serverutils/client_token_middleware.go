package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ClientTokenMiddleware authenticates anonymous visitors. The token is a
// client-generated uuid and the only proof of ownership of a conversation,
// so an empty or malformed value is rejected before any handler runs.
func ClientTokenMiddleware(ctx *fiber.Ctx) error {
	token := ctx.Get("X-Client-Token")
	if token == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Missing client token"))
	}
	if _, err := uuid.Parse(token); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid client token"))
	}
	ctx.Locals("client_token", token)
	return ctx.Next()
}
