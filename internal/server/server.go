package server

import (
	"context"
	"time"

	"kanban/internal/chat"
	"kanban/internal/config"
	"kanban/internal/database"
	"kanban/internal/database/dto"
	"kanban/internal/database/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Store is everything the handlers read or write.
type Store interface {
	chat.Store

	Register(ctx context.Context, user *models.User) (*models.Board, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	BoardsByUser(ctx context.Context, userID int64) ([]models.Board, error)
	CreateBoard(ctx context.Context, board *models.Board) error
	DeleteBoard(ctx context.Context, id int64) error
	BoardOwner(ctx context.Context, id int64) (int64, error)

	CreateColumn(ctx context.Context, column *models.Column) error
	UpdateColumn(ctx context.Context, id int64, patch dto.ColumnPatch) (*models.Column, error)
	DeleteColumn(ctx context.Context, id int64) error
	ColumnOwner(ctx context.Context, id int64) (int64, error)

	CardOwner(ctx context.Context, id int64) (int64, error)
	SearchCards(ctx context.Context, query string, userID int64) ([]models.Card, error)
}

// Chat runs one assistant turn.
type Chat interface {
	HandleChat(ctx context.Context, callerUserID, targetUserID int64, message string) (*chat.Reply, error)
}

type Deps struct {
	DB     database.Service
	Store  Store
	Chat   Chat
	Logger *zap.Logger
}

type FiberServer struct {
	*fiber.App

	db     database.Service
	store  Store
	chat   Chat
	logger *zap.Logger

	jwtSecret []byte
	tokenTTL  time.Duration
}

func New(cfg *config.Config, deps Deps) *FiberServer {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader: "kanban",
			AppName:      "kanban",
			ErrorHandler: errorHandler(log),
		}),
		db:        deps.DB,
		store:     deps.Store,
		chat:      deps.Chat,
		logger:    log,
		jwtSecret: []byte(cfg.JWT.Secret),
		tokenTTL:  cfg.JWT.TTL,
	}
	server.App.Use(recover.New())
	server.App.Use(favicon.New())
	server.App.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		MaxAge:       3600,
	}))
	server.App.Use(requestid.New())
	server.App.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	return server
}
