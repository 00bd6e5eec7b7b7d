package controller

import (
	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/pkg/serverutils"
	"redoma-support-be/internal/service"
	"redoma-support-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProviderController interface {
	RegisterRoutes(r fiber.Router)
}

type providerController struct {
	service service.IProviderService
}

func NewProviderController(service service.IProviderService) IProviderController {
	return &providerController{service: service}
}

func (c *providerController) RegisterRoutes(r fiber.Router) {
	// The active catalog is public: any visitor can browse it.
	public := r.Group("/provider/v1")
	public.Get("/active", c.ListActive)

	admin := r.Group("/provider/v1/admin")
	admin.Use(serverutils.JwtMiddleware)
	admin.Use(serverutils.RequireRole(store.RoleMaster))
	admin.Get("", c.ListAll)
	admin.Get(":id", c.Get)
	admin.Post("", c.Create)
	admin.Put(":id", c.Update)
	admin.Delete(":id", c.Delete)
	admin.Post(":id/logo", c.UploadLogo)
}

func (c *providerController) ListActive(ctx *fiber.Ctx) error {
	res, err := c.service.ListActive(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get providers", res))
}

func (c *providerController) ListAll(ctx *fiber.Ctx) error {
	res, err := c.service.ListAll(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get providers", res))
}

func (c *providerController) Get(ctx *fiber.Ctx) error {
	id, err := parseProviderId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get provider", res))
}

func (c *providerController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProviderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create provider", res))
}

func (c *providerController) Update(ctx *fiber.Ctx) error {
	id, err := parseProviderId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProviderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update provider", res))
}

func (c *providerController) Delete(ctx *fiber.Ctx) error {
	id, err := parseProviderId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete provider", nil))
}

func (c *providerController) UploadLogo(ctx *fiber.Ctx) error {
	id, err := parseProviderId(ctx)
	if err != nil {
		return err
	}

	upload, err := parseImageUpload(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.UploadLogo(ctx.Context(), id, upload)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success upload logo", res))
}

func parseProviderId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid provider id")
	}
	return id, nil
}
