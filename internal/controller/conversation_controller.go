package controller

import (
	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/pkg/serverutils"
	"redoma-support-be/internal/service"
	"redoma-support-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
}

type conversationController struct {
	conversations service.IConversationService
	messages      service.IMessageService
}

func NewConversationController(
	conversations service.IConversationService,
	messages service.IMessageService,
) IConversationController {
	return &conversationController{
		conversations: conversations,
		messages:      messages,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	// Anonymous visitor routes, scoped by the client token header.
	client := r.Group("/chat/v1")
	client.Use(serverutils.ClientTokenMiddleware)
	client.Post("/conversations", c.CreateConversation)
	client.Get("/conversations", c.ListClientConversations)
	client.Get("/conversations/:id", c.GetClientConversation)
	client.Get("/conversations/:id/messages", c.ListClientMessages)
	client.Post("/conversations/:id/messages", c.AddClientMessage)
	client.Post("/conversations/:id/messages/image", c.AddClientImage)
	client.Post("/conversations/:id/mark_client_seen", c.MarkClientSeen)

	// Staff routes. Support agents work the queue; master passes too.
	staff := r.Group("/support/v1")
	staff.Use(serverutils.JwtMiddleware)
	staff.Use(serverutils.RequireRole(store.RoleSupport))
	staff.Get("/conversations", c.ListStaffConversations)
	staff.Get("/conversations/:id", c.GetStaffConversation)
	staff.Get("/conversations/:id/messages", c.ListStaffMessages)
	staff.Post("/conversations/:id/messages", c.AddAgentMessage)
	staff.Post("/conversations/:id/messages/image", c.AddAgentImage)
	staff.Post("/conversations/:id/claim", c.Claim)
	staff.Post("/conversations/:id/close", c.Close)
	staff.Post("/conversations/:id/mark_seen", c.MarkAgentSeen)
}

func (c *conversationController) CreateConversation(ctx *fiber.Ctx) error {
	clientToken, _ := ctx.Locals("client_token").(string)

	var req dto.CreateConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversations.Create(ctx.Context(), clientToken, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create conversation", res))
}

func (c *conversationController) ListClientConversations(ctx *fiber.Ctx) error {
	clientToken, _ := ctx.Locals("client_token").(string)

	res, err := c.conversations.ListForClient(ctx.Context(), clientToken)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *conversationController) GetClientConversation(ctx *fiber.Ctx) error {
	clientToken, _ := ctx.Locals("client_token").(string)
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversations.GetForClient(ctx.Context(), id, clientToken)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation", res))
}

func (c *conversationController) ListClientMessages(ctx *fiber.Ctx) error {
	clientToken, _ := ctx.Locals("client_token").(string)
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.messages.ListForClient(ctx.Context(), id, clientToken)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *conversationController) AddClientMessage(ctx *fiber.Ctx) error {
	clientToken, _ := ctx.Locals("client_token").(string)
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.AddMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messages.AddClientMessage(ctx.Context(), id, clientToken, req.Content)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *conversationController) AddClientImage(ctx *fiber.Ctx) error {
	clientToken, _ := ctx.Locals("client_token").(string)
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	upload, err := parseImageUpload(ctx)
	if err != nil {
		return err
	}

	res, err := c.messages.AddClientImage(ctx.Context(), id, clientToken, upload)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success send image", res))
}

func (c *conversationController) MarkClientSeen(ctx *fiber.Ctx) error {
	clientToken, _ := ctx.Locals("client_token").(string)
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversations.MarkClientSeen(ctx.Context(), id, clientToken)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark seen", res))
}

func (c *conversationController) ListStaffConversations(ctx *fiber.Ctx) error {
	var req dto.ConversationListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.conversations.ListForStaff(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *conversationController) GetStaffConversation(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversations.GetForStaff(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation", res))
}

func (c *conversationController) ListStaffMessages(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.messages.ListForStaff(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *conversationController) AddAgentMessage(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}
	agentName, _ := ctx.Locals("display_name").(string)

	var req dto.AddMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messages.AddAgentMessage(ctx.Context(), id, agentName, req.Content)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *conversationController) AddAgentImage(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}
	agentName, _ := ctx.Locals("display_name").(string)

	upload, err := parseImageUpload(ctx)
	if err != nil {
		return err
	}

	res, err := c.messages.AddAgentImage(ctx.Context(), id, agentName, upload)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success send image", res))
}

func (c *conversationController) Claim(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}
	agentName, _ := ctx.Locals("display_name").(string)
	if agentName == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing agent identity")
	}

	res, err := c.conversations.Claim(ctx.Context(), id, agentName)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success claim conversation", res))
}

func (c *conversationController) Close(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversations.Close(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success close conversation", res))
}

func (c *conversationController) MarkAgentSeen(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversations.MarkAgentSeen(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success mark seen", res))
}

func parseIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid conversation id")
	}
	return id, nil
}

func parseImageUpload(ctx *fiber.Ctx) (*service.ImageUpload, error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}

	return &service.ImageUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}, nil
}
