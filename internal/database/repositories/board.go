package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kanban/internal/database/models"
)

type BoardRepository interface {
	Create(ctx context.Context, board *models.Board) error
	// GetByID returns the board with its columns and cards, sorted by order.
	GetByID(ctx context.Context, id int64) (*models.Board, error)
	// GetByUser returns every board owned by the user, oldest first, fully loaded.
	GetByUser(ctx context.Context, userID int64) ([]models.Board, error)
	// FirstIDByUser returns the id of the user's oldest board.
	FirstIDByUser(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	// Owner returns the user id owning the board.
	Owner(ctx context.Context, id int64) (int64, error)
}

type boardRepository struct {
	db DBTX
}

func NewBoardRepository(db DBTX) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) Create(ctx context.Context, board *models.Board) error {
	query := `
		INSERT INTO boards (title, user_id, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, board.Title, board.UserID).Scan(&board.ID, &board.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating board: %w", err)
	}
	if board.Columns == nil {
		board.Columns = []models.Column{}
	}
	return nil
}

func (r *boardRepository) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	board := models.Board{}
	query := `SELECT id, title, user_id, created_at FROM boards WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&board.ID, &board.Title, &board.UserID, &board.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("board")
	}
	if err != nil {
		return nil, fmt.Errorf("error getting board: %w", err)
	}
	if board.Columns, err = r.loadColumns(ctx, board.ID); err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) GetByUser(ctx context.Context, userID int64) ([]models.Board, error) {
	query := `SELECT id, title, user_id, created_at FROM boards WHERE user_id = $1 ORDER BY id`
	result, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying boards: %w", err)
	}
	defer result.Close()

	boards := []models.Board{}
	for result.Next() {
		var board models.Board
		if err := result.Scan(&board.ID, &board.Title, &board.UserID, &board.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning board: %w", err)
		}
		boards = append(boards, board)
	}
	if err = result.Err(); err != nil {
		return nil, fmt.Errorf("error iterating boards: %w", err)
	}
	// the rows must be closed before issuing further queries on a single tx
	result.Close()

	for i := range boards {
		if boards[i].Columns, err = r.loadColumns(ctx, boards[i].ID); err != nil {
			return nil, err
		}
	}
	return boards, nil
}

func (r *boardRepository) FirstIDByUser(ctx context.Context, userID int64) (int64, error) {
	var id int64
	query := `SELECT id FROM boards WHERE user_id = $1 ORDER BY id LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFound("board")
	}
	if err != nil {
		return 0, fmt.Errorf("error getting first board: %w", err)
	}
	return id, nil
}

// loadColumns reads a board's columns and cards in one pass, already sorted.
func (r *boardRepository) loadColumns(ctx context.Context, boardID int64) ([]models.Column, error) {
	query := `
		SELECT c.id, c.title, c.position, c.board_id, c.created_at,
		       k.id, k.title, k.description, k.position, k.created_at, k.updated_at
		FROM columns c
		LEFT JOIN cards k ON k.column_id = c.id
		WHERE c.board_id = $1
		ORDER BY c.position, c.id, k.position, k.id`
	result, err := r.db.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("error querying columns: %w", err)
	}
	defer result.Close()

	columns := []models.Column{}
	for result.Next() {
		var (
			col         models.Column
			cardID      sql.NullInt64
			cardTitle   sql.NullString
			cardDesc    sql.NullString
			cardOrder   sql.NullInt64
			cardCreated sql.NullTime
			cardUpdated sql.NullTime
		)
		err := result.Scan(
			&col.ID, &col.Title, &col.Order, &col.BoardID, &col.CreatedAt,
			&cardID, &cardTitle, &cardDesc, &cardOrder, &cardCreated, &cardUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning column: %w", err)
		}
		if n := len(columns); n == 0 || columns[n-1].ID != col.ID {
			col.Cards = []models.Card{}
			columns = append(columns, col)
		}
		if cardID.Valid {
			last := &columns[len(columns)-1]
			last.Cards = append(last.Cards, models.Card{
				ID:          cardID.Int64,
				Title:       cardTitle.String,
				Description: cardDesc.String,
				Order:       int(cardOrder.Int64),
				ColumnID:    col.ID,
				CreatedAt:   cardCreated.Time,
				UpdatedAt:   cardUpdated.Time,
			})
		}
	}
	if err = result.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return columns, nil
}

func (r *boardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting board: %w", err)
	}
	return affectedOne(result, "board")
}

func (r *boardRepository) Owner(ctx context.Context, id int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM boards WHERE id = $1`, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFound("board")
	}
	if err != nil {
		return 0, fmt.Errorf("error getting board owner: %w", err)
	}
	return userID, nil
}
