package models

import (
	"sort"
	"time"
)

type Board struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UserID    int64     `json:"user_id"`
	Columns   []Column  `json:"columns"`
	CreatedAt time.Time `json:"-"`
}

// Sort orders columns and, within each column, cards by (Order, ID).
// Stores return boards already sorted; callers that mutate a board in
// memory use this to restore the invariant.
func (b *Board) Sort() {
	sort.SliceStable(b.Columns, func(i, j int) bool {
		if b.Columns[i].Order != b.Columns[j].Order {
			return b.Columns[i].Order < b.Columns[j].Order
		}
		return b.Columns[i].ID < b.Columns[j].ID
	})
	for i := range b.Columns {
		b.Columns[i].SortCards()
	}
}

// Card finds a card anywhere on the board.
func (b *Board) Card(id int64) (*Card, *Column) {
	for i := range b.Columns {
		col := &b.Columns[i]
		for j := range col.Cards {
			if col.Cards[j].ID == id {
				return &col.Cards[j], col
			}
		}
	}
	return nil, nil
}
