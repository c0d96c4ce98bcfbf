package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"kanban/internal/database/models"
)

// Snapshot is the only view of board state the model receives.
type Snapshot struct {
	Title   string           `json:"board_title"`
	Columns []SnapshotColumn `json:"columns"`
}

type SnapshotColumn struct {
	ID    int64          `json:"id"`
	Title string         `json:"title"`
	Cards []SnapshotCard `json:"cards"`
}

type SnapshotCard struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewSnapshot copies the board in (order, id) order without touching b.
func NewSnapshot(b *models.Board) Snapshot {
	sorted := models.Board{Columns: make([]models.Column, len(b.Columns))}
	for i, col := range b.Columns {
		col.Cards = append([]models.Card(nil), col.Cards...)
		sorted.Columns[i] = col
	}
	sorted.Sort()

	snap := Snapshot{Title: b.Title, Columns: make([]SnapshotColumn, 0, len(sorted.Columns))}
	for _, col := range sorted.Columns {
		sc := SnapshotColumn{ID: col.ID, Title: col.Title, Cards: make([]SnapshotCard, 0, len(col.Cards))}
		for _, card := range col.Cards {
			sc.Cards = append(sc.Cards, SnapshotCard{ID: card.ID, Title: card.Title, Description: card.Description})
		}
		snap.Columns = append(snap.Columns, sc)
	}
	return snap
}

const systemInstruction = `You are an assistant that manages a single Kanban board for the user.
Read the current board and the user's message, answer in response_message, and decide whether the board should change.
Only these operations exist:
- add_card: create a card. Set title, optionally description, and column_name to one of the existing column titles.
- update_card: change an existing card. Set card_id and only the fields that change (title and/or description).
- delete_card: remove an existing card. Set card_id.
Use card ids exactly as they appear on the board. Never invent ids.
If the message does not ask for a change, return an empty operations list.
Columns cannot be created, renamed or deleted.`

// buildPrompt renders the user turn sent next to systemInstruction.
func buildPrompt(message string, snap Snapshot) (string, error) {
	board, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	var b strings.Builder
	b.WriteString("Current board:\n")
	b.Write(board)
	b.WriteString("\n\nUser message:\n")
	b.WriteString(message)
	return b.String(), nil
}
