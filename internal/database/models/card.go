package models

import (
	"time"
)

// MaxCardTitleLength matches the width of cards.title, in characters.
const MaxCardTitleLength = 200

type Card struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	ColumnID    int64     `json:"column_id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
