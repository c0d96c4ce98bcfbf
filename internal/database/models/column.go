package models

import (
	"sort"
	"time"
)

type Column struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	BoardID   int64     `json:"board_id"`
	Cards     []Card    `json:"cards"`
	CreatedAt time.Time `json:"-"`
}

// SortCards orders cards by (Order, ID).
func (c *Column) SortCards() {
	sort.SliceStable(c.Cards, func(i, j int) bool {
		if c.Cards[i].Order != c.Cards[j].Order {
			return c.Cards[i].Order < c.Cards[j].Order
		}
		return c.Cards[i].ID < c.Cards[j].ID
	})
}
