package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kanban/internal/database/dto"
	"kanban/internal/database/models"

	"go.uber.org/zap"
)

// Store is the slice of the board store the chat pipeline needs. Lookups of
// missing rows return errors wrapping ErrNotFound.
type Store interface {
	// FirstBoardID returns the user's oldest board id without loading it.
	FirstBoardID(ctx context.Context, userID int64) (int64, error)
	Board(ctx context.Context, id int64) (*models.Board, error)
	CreateCard(ctx context.Context, card *models.Card) error
	UpdateCard(ctx context.Context, id int64, patch dto.CardPatch) (*models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

// ApplyResult counts what happened to a batch.
type ApplyResult struct {
	Applied int
	Skipped int
}

// Applier executes operations against one board, in order. Each operation is
// its own store write; a store failure stops the batch with earlier writes
// already committed.
type Applier struct {
	store  Store
	logger *zap.Logger
}

func NewApplier(store Store, logger *zap.Logger) *Applier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{store: store, logger: logger}
}

// Apply loads boardID and runs ops against it, see ApplyTo.
func (a *Applier) Apply(ctx context.Context, boardID int64, ops []Operation) (ApplyResult, error) {
	board, err := a.store.Board(ctx, boardID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("load board %d: %w", boardID, err)
	}
	return a.ApplyTo(ctx, board, ops)
}

// ApplyTo assumes board has already been authorized for the caller and uses
// it as the working copy, so board is mutated. Card ids are resolved against
// that board only, so an id from another board is treated as unknown.
func (a *Applier) ApplyTo(ctx context.Context, board *models.Board, ops []Operation) (ApplyResult, error) {
	var (
		res ApplyResult
		err error
	)
	boardID := board.ID
	board.Sort()

	for i, op := range ops {
		var (
			applied bool
			reason  string
		)
		switch op := op.(type) {
		case AddCard:
			applied, reason, err = a.addCard(ctx, board, op)
		case UpdateCard:
			applied, reason, err = a.updateCard(ctx, board, op)
		case DeleteCard:
			applied, reason, err = a.deleteCard(ctx, board, op)
		case Ignored:
			reason = op.Reason
		default:
			reason = "unsupported operation"
		}
		if err != nil {
			return res, fmt.Errorf("operation %d (%s): %w", i, op.Action(), err)
		}
		if applied {
			res.Applied++
			continue
		}
		res.Skipped++
		a.logger.Debug("skipped operation",
			zap.Int64("board_id", boardID),
			zap.Int("index", i),
			zap.String("action", string(op.Action())),
			zap.String("reason", reason))
	}
	return res, nil
}

func (a *Applier) addCard(ctx context.Context, board *models.Board, op AddCard) (bool, string, error) {
	col := resolveColumn(board, op.ColumnName)
	if col == nil {
		return false, "board has no columns", nil
	}
	card := models.Card{
		Title:       op.Title,
		Description: op.Description,
		Order:       len(col.Cards),
		ColumnID:    col.ID,
	}
	if err := a.store.CreateCard(ctx, &card); err != nil {
		return false, "", err
	}
	col.Cards = append(col.Cards, card)
	return true, "", nil
}

func (a *Applier) updateCard(ctx context.Context, board *models.Board, op UpdateCard) (bool, string, error) {
	card, _ := board.Card(op.CardID)
	if card == nil {
		return false, "card not on board", nil
	}
	updated, err := a.store.UpdateCard(ctx, op.CardID, dto.CardPatch{Title: op.Title, Description: op.Description})
	if errors.Is(err, ErrNotFound) {
		return false, "card vanished", nil
	}
	if err != nil {
		return false, "", err
	}
	card.Title = updated.Title
	card.Description = updated.Description
	return true, "", nil
}

func (a *Applier) deleteCard(ctx context.Context, board *models.Board, op DeleteCard) (bool, string, error) {
	card, col := board.Card(op.CardID)
	if card == nil {
		return false, "card not on board", nil
	}
	err := a.store.DeleteCard(ctx, op.CardID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, "", err
	}
	for i := range col.Cards {
		if col.Cards[i].ID == op.CardID {
			col.Cards = append(col.Cards[:i], col.Cards[i+1:]...)
			break
		}
	}
	if err != nil {
		return false, "card vanished", nil
	}
	return true, "", nil
}

// resolveColumn picks the column whose title equals name ignoring case, else
// the first column by order, else nil.
func resolveColumn(board *models.Board, name string) *models.Column {
	if len(board.Columns) == 0 {
		return nil
	}
	if name != "" {
		for i := range board.Columns {
			if strings.EqualFold(strings.TrimSpace(board.Columns[i].Title), name) {
				return &board.Columns[i]
			}
		}
	}
	return &board.Columns[0]
}
