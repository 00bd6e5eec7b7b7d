package controller

import (
	"redoma-support-be/internal/dto"
	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/internal/pkg/serverutils"
	"redoma-support-be/internal/service"
	"redoma-support-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IErrorLogController interface {
	RegisterRoutes(r fiber.Router)
}

type errorLogController struct {
	service service.IErrorLogService
	logger  logger.ILogger
}

func NewErrorLogController(service service.IErrorLogService, log logger.ILogger) IErrorLogController {
	return &errorLogController{service: service, logger: log}
}

func (c *errorLogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/errorlog/v1")
	h.Post("", c.Report)

	admin := h.Group("", serverutils.JwtMiddleware, serverutils.RequireRole(store.RoleMaster))
	admin.Get("", c.List)
	admin.Get("/system", c.SystemLogs)
	admin.Get("/system/:id", c.SystemLogById)
}

// Report accepts frontend error reports. It always answers 202: the sink
// is best effort and the reporting page is already in a failure path.
func (c *errorLogController) Report(ctx *fiber.Ctx) error {
	var req dto.ReportErrorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Accepted", nil))
	}
	if req.Source == "" || req.ErrorMessage == "" {
		return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Accepted", nil))
	}

	c.service.Report(ctx.Context(), &req)
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Accepted", nil))
}

func (c *errorLogController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get error logs", res))
}

// SystemLogs exposes the server's own file log for the admin panel.
func (c *errorLogController) SystemLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	entries, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get system logs", entries))
}

func (c *errorLogController) SystemLogById(ctx *fiber.Ctx) error {
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil {
		return err
	}
	if entry == nil {
		return fiber.NewError(fiber.StatusNotFound, "Log entry not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get log entry", entry))
}
