package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kanban/internal/database/models"

	"go.uber.org/zap"
)

// Reply is what a chat turn returns to the client.
type Reply struct {
	ResponseMessage string        `json:"response_message"`
	Board           *models.Board `json:"board"`
}

// Orchestrator runs one chat turn: authorize, load, ask, apply, reload.
// It keeps no state between turns.
type Orchestrator struct {
	store   Store
	gateway Gateway
	applier *Applier
	logger  *zap.Logger
	timeout time.Duration
}

type Option func(*Orchestrator)

// WithTimeout bounds the gateway call. Zero leaves it to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

func NewOrchestrator(store Store, gateway Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{store: store, gateway: gateway, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.applier = NewApplier(store, o.logger)
	return o
}

// HandleChat applies the assistant's proposed operations to the first board
// owned by targetUserID. Authorization and board lookup happen before the
// model is called; a gateway failure applies nothing.
func (o *Orchestrator) HandleChat(ctx context.Context, callerUserID, targetUserID int64, message string) (*Reply, error) {
	if callerUserID != targetUserID {
		return nil, ErrForbidden
	}

	// multi-board targeting is not supported, the first board is the chat board
	boardID, err := o.store.FirstBoardID(ctx, targetUserID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoBoard
	}
	if err != nil {
		return nil, fmt.Errorf("find board: %w", err)
	}
	board, err := o.store.Board(ctx, boardID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoBoard
	}
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}

	resp, err := o.generate(ctx, message, NewSnapshot(board))
	if err != nil {
		var gwErr *GatewayError
		if !errors.As(err, &gwErr) {
			err = &GatewayError{Reason: "generate", Err: err}
		}
		o.logger.Warn("chat gateway failed", zap.Int64("board_id", board.ID), zap.Error(err))
		return nil, err
	}

	result, err := o.applier.ApplyTo(ctx, board, resp.Operations)
	if err != nil {
		return nil, fmt.Errorf("apply operations: %w", err)
	}
	o.logger.Info("chat turn",
		zap.Int64("user_id", targetUserID),
		zap.Int64("board_id", boardID),
		zap.Int("proposed", len(resp.Operations)),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", result.Skipped))

	updated, err := o.store.Board(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("reload board: %w", err)
	}
	return &Reply{ResponseMessage: resp.Message, Board: updated}, nil
}

func (o *Orchestrator) generate(ctx context.Context, message string, snap Snapshot) (*Response, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	resp, err := o.gateway.GenerateBoardResponse(ctx, message, snap)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, &GatewayError{Reason: "empty response", Err: errEmptyContent}
	}
	return resp, nil
}
