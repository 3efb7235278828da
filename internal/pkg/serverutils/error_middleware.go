package serverutils

import (
	"errors"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps AppError kinds to HTTP statuses and logs
// server-side failures. Handlers just return their errors.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := AsAppError(err); ok {
			status := appErr.StatusCode()
			if status >= 500 {
				log.Error("http", appErr.Message, map[string]interface{}{
					"kind":  string(appErr.Kind),
					"path":  ctx.Path(),
					"error": appErr.Error(),
				})
			}
			return ctx.Status(status).JSON(ErrorResponse(status, appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		// Unclassified errors stay server-side; the caller gets a stable
		// generic message, never the raw error text.
		log.Error("http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusBadRequest).
			JSON(ErrorResponse(fiber.StatusBadRequest, "invalid request"))
	}
}
