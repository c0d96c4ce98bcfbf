package server

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func (s *FiberServer) RegisterFiberRoutes() {
	s.App.Get("/health", s.healthHandler)

	api := s.App.Group("/api")
	api.Get("/hello", s.helloHandler)
	api.Post("/register", s.registerUser)
	api.Post("/login", s.login)

	api.Use(jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: s.jwtSecret},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		},
	}))

	api.Get("/users/me", s.currentUser)
	api.Get("/users/:id<int>/boards", s.getUserBoards)

	api.Post("/boards", s.createBoard)
	api.Get("/boards/:id<int>", s.getBoard)
	api.Delete("/boards/:id<int>", s.deleteBoard)

	api.Post("/columns", s.createColumn)
	api.Patch("/columns/:id<int>", s.updateColumn)
	api.Delete("/columns/:id<int>", s.deleteColumn)

	api.Get("/cards/search", s.searchCards)
	api.Post("/cards", s.createCard)
	api.Patch("/cards/:id<int>", s.updateCard)
	api.Delete("/cards/:id<int>", s.deleteCard)

	api.Post("/ai/chat", s.chatHandler)
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	if s.db == nil {
		return c.JSON(fiber.Map{"status": "unknown"})
	}
	return c.JSON(s.db.Health())
}

func (s *FiberServer) helloHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "hello world"})
}
