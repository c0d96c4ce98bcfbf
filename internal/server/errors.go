package server

import (
	"errors"

	"kanban/internal/chat"
	"kanban/internal/database/repositories"
	"kanban/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		var gwErr *chat.GatewayError
		switch {
		case errors.As(err, &fe):
			code, message = fe.Code, fe.Message
		case errors.Is(err, utils.ErrInvalidToken):
			code, message = fiber.StatusUnauthorized, "unauthorized"
		case errors.Is(err, chat.ErrForbidden):
			code, message = fiber.StatusForbidden, "forbidden"
		case errors.Is(err, repositories.ErrNotFound):
			code, message = fiber.StatusNotFound, err.Error()
		case errors.Is(err, repositories.ErrDuplicateUser):
			code, message = fiber.StatusConflict, err.Error()
		case errors.As(err, &gwErr):
			code, message = fiber.StatusBadGateway, "assistant unavailable"
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", requestID(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
