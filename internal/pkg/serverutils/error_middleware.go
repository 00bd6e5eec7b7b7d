package serverutils

import (
	"errors"

	"redoma-support-be/internal/pkg/apperror"
	"redoma-support-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors bubbling out of handlers into the
// shared response envelope. AppError carries its own status, fiber errors
// keep theirs, anything else is a 500 and gets logged with the route.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			if appErr.Status >= 500 {
				log.Error("http", "request failed", map[string]interface{}{
					"route": ctx.Path(),
					"code":  appErr.Code,
					"error": appErr.Error(),
				})
			}
			return ctx.Status(appErr.Status).JSON(fiber.Map{
				"success": false,
				"code":    appErr.Code,
				"message": appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"route": ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
