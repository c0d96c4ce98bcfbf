package chat

import (
	"context"
	"testing"

	"kanban/internal/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardsIn(t *testing.T, s *memStore, boardID int64, column string) []models.Card {
	t.Helper()
	b, err := s.Board(context.Background(), boardID)
	require.NoError(t, err)
	for _, c := range b.Columns {
		if c.Title == column {
			return c.Cards
		}
	}
	t.Fatalf("column %q not on board", column)
	return nil
}

func TestApplyAddCardAppends(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Home", "To Do", "Done")
	todo := s.columnByTitle(b.ID, "To Do")
	s.addCard(todo.ID, "existing", "")
	s.addCard(todo.ID, "existing 2", "")

	res, err := NewApplier(s, nil).Apply(context.Background(), b.ID, []Operation{
		AddCard{Title: "Laundry", ColumnName: "to do"},
	})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Applied: 1}, res)

	cards := cardsIn(t, s, b.ID, "To Do")
	require.Len(t, cards, 3)
	assert.Equal(t, "Laundry", cards[2].Title)
	assert.Equal(t, 2, cards[2].Order)
}

func TestApplyAddCardSameColumnOrders(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Home", "To Do")

	_, err := NewApplier(s, nil).Apply(context.Background(), b.ID, []Operation{
		AddCard{Title: "one", ColumnName: "To Do"},
		AddCard{Title: "two", ColumnName: "To Do"},
		AddCard{Title: "three"},
	})
	require.NoError(t, err)

	cards := cardsIn(t, s, b.ID, "To Do")
	require.Len(t, cards, 3)
	for i, want := range []string{"one", "two", "three"} {
		assert.Equal(t, want, cards[i].Title)
		assert.Equal(t, i, cards[i].Order)
	}
}

func TestApplyAddCardFallsBackToFirstColumn(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Home", "Backlog", "Done")

	_, err := NewApplier(s, nil).Apply(context.Background(), b.ID, []Operation{
		AddCard{Title: "no column"},
		AddCard{Title: "bad column", ColumnName: "Someday"},
	})
	require.NoError(t, err)
	assert.Len(t, cardsIn(t, s, b.ID, "Backlog"), 2)
	assert.Empty(t, cardsIn(t, s, b.ID, "Done"))
}

func TestApplyAddCardNoColumnsSkips(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Empty")

	res, err := NewApplier(s, nil).Apply(context.Background(), b.ID, []Operation{AddCard{Title: "x"}})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Skipped: 1}, res)
	assert.Zero(t, s.cardCount())
}

func TestApplyUpdatePartial(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Home", "To Do")
	card := s.addCard(s.columnByTitle(b.ID, "To Do").ID, "Title", "Desc")
	a := NewApplier(s, nil)

	_, err := a.Apply(context.Background(), b.ID, []Operation{UpdateCard{CardID: card.ID, Description: ptr("new desc")}})
	require.NoError(t, err)
	got := cardsIn(t, s, b.ID, "To Do")[0]
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, "new desc", got.Description)

	_, err = a.Apply(context.Background(), b.ID, []Operation{UpdateCard{CardID: card.ID, Title: ptr("new title")}})
	require.NoError(t, err)
	got = cardsIn(t, s, b.ID, "To Do")[0]
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, "new desc", got.Description)
}

func TestApplyUpdateIdempotent(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Home", "To Do")
	card := s.addCard(s.columnByTitle(b.ID, "To Do").ID, "Title", "Desc")
	op := UpdateCard{CardID: card.ID, Title: ptr("T"), Description: ptr("D")}
	a := NewApplier(s, nil)

	_, err := a.Apply(context.Background(), b.ID, []Operation{op})
	require.NoError(t, err)
	once := cardsIn(t, s, b.ID, "To Do")[0]

	_, err = a.Apply(context.Background(), b.ID, []Operation{op})
	require.NoError(t, err)
	twice := cardsIn(t, s, b.ID, "To Do")[0]

	assert.Equal(t, once, twice)
}

func TestApplySkipsUnknownAndMissing(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Home", "To Do")

	res, err := NewApplier(s, nil).Apply(context.Background(), b.ID, []Operation{
		AddCard{Title: "kept", ColumnName: "To Do"},
		DeleteCard{CardID: 9999},
		UpdateCard{CardID: 9999, Title: ptr("x")},
		Ignored{Raw: "rename_board", Reason: "unknown action"},
	})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Applied: 1, Skipped: 3}, res)
	assert.Equal(t, 1, s.cardCount())
}

func TestApplyIgnoresCardsOnOtherBoards(t *testing.T) {
	s := newMemStore()
	mine := s.addBoard(1, "Mine", "To Do")
	theirs := s.addBoard(2, "Theirs", "To Do")
	victim := s.addCard(s.columnByTitle(theirs.ID, "To Do").ID, "secret", "")

	res, err := NewApplier(s, nil).Apply(context.Background(), mine.ID, []Operation{
		DeleteCard{CardID: victim.ID},
		UpdateCard{CardID: victim.ID, Title: ptr("pwned")},
	})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Skipped: 2}, res)
	assert.Equal(t, "secret", cardsIn(t, s, theirs.ID, "To Do")[0].Title)
}

func TestApplyLaterOperationsSeeEarlierOnes(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Home", "To Do")
	col := s.columnByTitle(b.ID, "To Do")
	first := s.addCard(col.ID, "first", "")

	res, err := NewApplier(s, nil).Apply(context.Background(), b.ID, []Operation{
		DeleteCard{CardID: first.ID},
		DeleteCard{CardID: first.ID},
		AddCard{Title: "after delete"},
	})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Applied: 2, Skipped: 1}, res)

	cards := cardsIn(t, s, b.ID, "To Do")
	require.Len(t, cards, 1)
	assert.Equal(t, 0, cards[0].Order)
}

func TestApplyStoreFailureKeepsEarlierWrites(t *testing.T) {
	s := newMemStore()
	b := s.addBoard(1, "Home", "To Do")
	s.failCreateAfter = 2

	res, err := NewApplier(s, nil).Apply(context.Background(), b.ID, []Operation{
		AddCard{Title: "one"},
		AddCard{Title: "two"},
		AddCard{Title: "three"},
	})
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, s.cardCount())
}

func TestApplyUnknownBoard(t *testing.T) {
	_, err := NewApplier(newMemStore(), nil).Apply(context.Background(), 42, nil)
	require.ErrorIs(t, err, ErrNotFound)
}
