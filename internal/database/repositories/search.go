package repositories

import (
	"context"
	"fmt"
	"strings"

	"kanban/internal/database/models"
)

type SearchRepository interface {
	// SearchCards runs a prefix full-text query over the titles and
	// descriptions of cards on boards owned by userID.
	SearchCards(ctx context.Context, query string, userID int64) ([]models.Card, error)
}

type searchRepository struct {
	db DBTX
}

func NewSearchRepository(db DBTX) SearchRepository {
	return &searchRepository{db: db}
}

func (s *searchRepository) SearchCards(ctx context.Context, query string, userID int64) ([]models.Card, error) {
	formattedQuery := formatTsQuery(query)
	if formattedQuery == "" {
		return []models.Card{}, nil
	}

	tsQuery := "to_tsquery('english', $1)"
	cardsQuery := `
	SELECT k.id, k.title, k.description, k.position, k.column_id, k.created_at, k.updated_at
	FROM cards k
	JOIN columns c ON c.id = k.column_id
	JOIN boards b ON b.id = c.board_id
	WHERE b.user_id = $2 AND
	      (to_tsvector('english', k.title) @@ ` + tsQuery + ` OR
	       to_tsvector('english', k.description) @@ ` + tsQuery + `)
	ORDER BY ts_rank(to_tsvector('english', k.title || ' ' || k.description), ` + tsQuery + `) DESC, k.id
	`

	rows, err := s.db.QueryContext(ctx, cardsQuery, formattedQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("error searching cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(
			&card.ID,
			&card.Title,
			&card.Description,
			&card.Order,
			&card.ColumnID,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}
	return cards, nil
}

// formatTsQuery turns free text into a prefix-matching AND query. Characters
// with meaning in tsquery syntax are dropped so user input cannot produce a
// syntax error.
func formatTsQuery(query string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '&', '|', '!', '(', ')', ':', '*', '\'', '\\', '<', '>':
			return ' '
		}
		return r
	}, query)

	words := strings.Fields(clean)
	for i, word := range words {
		words[i] = word + ":*"
	}
	return strings.Join(words, " & ")
}
