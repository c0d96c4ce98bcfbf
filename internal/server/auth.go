package server

import (
	"errors"
	"strings"

	"kanban/internal/chat"
	"kanban/internal/database/dto"
	"kanban/internal/database/models"
	"kanban/internal/database/repositories"
	"kanban/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func (s *FiberServer) login(c *fiber.Ctx) error {
	credentials := dto.LoginCredentials{}
	if err := c.BodyParser(&credentials); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	user, err := s.store.UserByUsername(c.Context(), credentials.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(credentials.Password, user.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	t, err := utils.IssueToken(s.jwtSecret, user.ID, user.Username, s.tokenTTL)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": t, "user_id": user.ID})
}

func (s *FiberServer) registerUser(c *fiber.Ctx) error {
	req := dto.Registration{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and password are required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user := models.User{Username: req.Username, Password: hash}
	board, err := s.store.Register(c.Context(), &user)
	if err != nil {
		return err
	}
	s.logger.Info("registered user", zap.Int64("user_id", user.ID), zap.Int64("board_id", board.ID))
	return c.JSON(fiber.Map{"message": "created user successfully", "user": user, "board": board})
}

func (s *FiberServer) currentUser(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	user, err := s.store.UserByID(c.Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// userID returns the caller verified by the jwt middleware.
func userID(c *fiber.Ctx) (int64, error) {
	token, _ := c.Locals("user").(*jwt.Token)
	return utils.UserIDFromToken(token)
}

// authorize fails with chat.ErrForbidden unless the caller owns the resource
// resolved by owner. A missing resource surfaces as not found.
func (s *FiberServer) authorize(c *fiber.Ctx, owner func(*fiber.Ctx, int64) (int64, error), id int64) (int64, error) {
	uid, err := userID(c)
	if err != nil {
		return 0, err
	}
	ownerID, err := owner(c, id)
	if err != nil {
		return 0, err
	}
	if ownerID != uid {
		return 0, chat.ErrForbidden
	}
	return uid, nil
}

func (s *FiberServer) boardOwner(c *fiber.Ctx, id int64) (int64, error) {
	return s.store.BoardOwner(c.Context(), id)
}

func (s *FiberServer) columnOwner(c *fiber.Ctx, id int64) (int64, error) {
	return s.store.ColumnOwner(c.Context(), id)
}

func (s *FiberServer) cardOwner(c *fiber.Ctx, id int64) (int64, error) {
	return s.store.CardOwner(c.Context(), id)
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return int64(id), nil
}
