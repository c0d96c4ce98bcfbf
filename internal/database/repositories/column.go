package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kanban/internal/database/dto"
	"kanban/internal/database/models"
)

type ColumnRepository interface {
	Create(ctx context.Context, column *models.Column) error
	Update(ctx context.Context, id int64, patch dto.ColumnPatch) (*models.Column, error)
	Delete(ctx context.Context, id int64) error
	// Owner resolves column -> board -> user.
	Owner(ctx context.Context, id int64) (int64, error)
}

type columnRepository struct {
	db DBTX
}

func NewColumnRepository(db DBTX) ColumnRepository {
	return &columnRepository{db: db}
}

func (r *columnRepository) Create(ctx context.Context, column *models.Column) error {
	query := `
		INSERT INTO columns (title, position, board_id, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, column.Title, column.Order, column.BoardID).Scan(&column.ID, &column.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating column: %w", err)
	}
	if column.Cards == nil {
		column.Cards = []models.Card{}
	}
	return nil
}

func (r *columnRepository) Update(ctx context.Context, id int64, patch dto.ColumnPatch) (*models.Column, error) {
	query := `
		UPDATE columns
		SET title = COALESCE($1, title), position = COALESCE($2, position)
		WHERE id = $3
		RETURNING id, title, position, board_id, created_at`
	column := models.Column{Cards: []models.Card{}}
	err := r.db.QueryRowContext(ctx, query, patch.Title, patch.Order, id).
		Scan(&column.ID, &column.Title, &column.Order, &column.BoardID, &column.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("column")
	}
	if err != nil {
		return nil, fmt.Errorf("error updating column: %w", err)
	}
	return &column, nil
}

func (r *columnRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM columns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting column: %w", err)
	}
	return affectedOne(result, "column")
}

func (r *columnRepository) Owner(ctx context.Context, id int64) (int64, error) {
	query := `
		SELECT b.user_id FROM columns c
		JOIN boards b ON b.id = c.board_id
		WHERE c.id = $1`
	var userID int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFound("column")
	}
	if err != nil {
		return 0, fmt.Errorf("error getting column owner: %w", err)
	}
	return userID, nil
}
