package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanban/internal/chat"
	"kanban/internal/config"
	"kanban/internal/database"
	"kanban/internal/database/repositories"
	"kanban/internal/logging"
	"kanban/internal/server"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	migrateDown bool
)

var rootCmd = &cobra.Command{
	Use:   "kanban",
	Short: "Kanban board API with an AI assistant",
	Long: `Serves the Kanban board API. Boards, columns and cards are edited through
plain CRUD routes or through /api/ai/chat, where a language model proposes
card operations that are applied to the caller's board.

Run without arguments to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply (or with --down, roll back) database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.New(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if migrateDown {
			err = database.MigrateDown(db.DB())
		} else {
			err = database.MigrateUp(db.DB())
		}
		if err != nil {
			return err
		}
		logger.Info("migrations done", zap.Bool("down", migrateDown))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back every migration")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireGemini(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.MigrateUp(db.DB()); err != nil {
		return err
	}

	gateway, err := chat.NewGenAIGateway(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}
	store := repositories.NewStore(db.DB())
	orchestrator := chat.NewOrchestrator(store, gateway,
		chat.WithTimeout(cfg.ChatTimeout),
		chat.WithLogger(logger.Named("chat")))

	srv := server.New(cfg, server.Deps{
		DB:     db,
		Store:  store,
		Chat:   orchestrator,
		Logger: logger.Named("http"),
	})
	srv.RegisterFiberRoutes()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.Int("port", cfg.Port))
		errCh <- srv.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()
	if err := srv.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
