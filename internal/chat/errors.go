package chat

import (
	"errors"
	"fmt"

	"kanban/internal/database/repositories"
)

var (
	// ErrForbidden is returned when the caller targets another user's board.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is the store's not-found sentinel, re-exported so callers of
	// this package need not import repositories.
	ErrNotFound = repositories.ErrNotFound

	// ErrNoBoard reports a user without any board.
	ErrNoBoard = fmt.Errorf("user has no board: %w", ErrNotFound)
)

// GatewayError wraps every failure of the model call.
type GatewayError struct {
	Reason string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return "gateway: " + e.Reason
	}
	return "gateway: " + e.Reason + ": " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }
