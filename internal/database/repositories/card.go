package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kanban/internal/database/dto"
	"kanban/internal/database/models"
)

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	// Update writes only the fields present in patch.
	Update(ctx context.Context, id int64, patch dto.CardPatch) (*models.Card, error)
	Delete(ctx context.Context, id int64) error
	// Owner resolves card -> column -> board -> user.
	Owner(ctx context.Context, id int64) (int64, error)
}

type cardRepository struct {
	db DBTX
}

func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (title, description, position, column_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, card.Title, card.Description, card.Order, card.ColumnID).
		Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating card: %w", err)
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	card := models.Card{}
	query := `SELECT id, title, description, position, column_id, created_at, updated_at FROM cards WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&card.ID, &card.Title, &card.Description, &card.Order, &card.ColumnID, &card.CreatedAt, &card.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("card")
	}
	if err != nil {
		return nil, fmt.Errorf("error getting card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) Update(ctx context.Context, id int64, patch dto.CardPatch) (*models.Card, error) {
	query := `
		UPDATE cards
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    position = COALESCE($3, position),
		    column_id = COALESCE($4, column_id),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING id, title, description, position, column_id, created_at, updated_at`
	card := models.Card{}
	err := r.db.QueryRowContext(ctx, query, patch.Title, patch.Description, patch.Order, patch.ColumnID, id).
		Scan(&card.ID, &card.Title, &card.Description, &card.Order, &card.ColumnID, &card.CreatedAt, &card.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("card")
	}
	if err != nil {
		return nil, fmt.Errorf("error updating card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting card: %w", err)
	}
	return affectedOne(result, "card")
}

func (r *cardRepository) Owner(ctx context.Context, id int64) (int64, error) {
	query := `
		SELECT b.user_id FROM cards k
		JOIN columns c ON c.id = k.column_id
		JOIN boards b ON b.id = c.board_id
		WHERE k.id = $1`
	var userID int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFound("card")
	}
	if err != nil {
		return 0, fmt.Errorf("error getting card owner: %w", err)
	}
	return userID, nil
}
