package server

import (
	"strings"

	"kanban/internal/database/dto"

	"github.com/gofiber/fiber/v2"
)

func (s *FiberServer) chatHandler(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	req := dto.ChatRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}
	// an omitted user_id means the caller's own board
	target := req.UserID
	if target == 0 {
		target = uid
	}

	reply, err := s.chat.HandleChat(c.Context(), uid, target, message)
	if err != nil {
		return err
	}
	return c.JSON(reply)
}
