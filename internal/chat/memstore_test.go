package chat

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"kanban/internal/database/dto"
	"kanban/internal/database/models"
	"kanban/internal/database/repositories"
)

// memStore is an in-memory Store keyed like the relational one.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	boards  map[int64]*models.Board
	columns map[int64]*models.Column
	cards   map[int64]*models.Card

	// failCreateAfter makes the n-th CreateCard call (1-based) fail.
	failCreateAfter int
	creates         int
	calls           []string
}

var (
	errStoreDown    = errors.New("store down")
	errTitleTooLong = errors.New("value too long for title")
)

func newMemStore() *memStore {
	return &memStore{
		nextID:  100,
		boards:  map[int64]*models.Board{},
		columns: map[int64]*models.Column{},
		cards:   map[int64]*models.Card{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addBoard(userID int64, title string, columns ...string) *models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &models.Board{ID: s.id(), Title: title, UserID: userID}
	s.boards[b.ID] = b
	for i, t := range columns {
		c := &models.Column{ID: s.id(), Title: t, Order: i, BoardID: b.ID}
		s.columns[c.ID] = c
	}
	return b
}

func (s *memStore) addCard(columnID int64, title, description string) *models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.cards {
		if c.ColumnID == columnID {
			n++
		}
	}
	c := &models.Card{ID: s.id(), Title: title, Description: description, Order: n, ColumnID: columnID}
	s.cards[c.ID] = c
	return c
}

func (s *memStore) columnByTitle(boardID int64, title string) *models.Column {
	for _, c := range s.columns {
		if c.BoardID == boardID && c.Title == title {
			return c
		}
	}
	return nil
}

func (s *memStore) load(id int64) *models.Board {
	b, ok := s.boards[id]
	if !ok {
		return nil
	}
	out := *b
	out.Columns = []models.Column{}
	for _, c := range s.columns {
		if c.BoardID != id {
			continue
		}
		col := *c
		col.Cards = []models.Card{}
		for _, card := range s.cards {
			if card.ColumnID == c.ID {
				col.Cards = append(col.Cards, *card)
			}
		}
		out.Columns = append(out.Columns, col)
	}
	out.Sort()
	return &out
}

func (s *memStore) FirstBoardID(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "FirstBoardID")
	for id := int64(0); id <= s.nextID; id++ {
		if b, ok := s.boards[id]; ok && b.UserID == userID {
			return id, nil
		}
	}
	return 0, repositories.ErrNotFound
}

func (s *memStore) Board(_ context.Context, id int64) (*models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "Board")
	b := s.load(id)
	if b == nil {
		return nil, repositories.ErrNotFound
	}
	return b, nil
}

func (s *memStore) CreateCard(_ context.Context, card *models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "CreateCard")
	s.creates++
	if s.failCreateAfter > 0 && s.creates >= s.failCreateAfter {
		return errStoreDown
	}
	if _, ok := s.columns[card.ColumnID]; !ok {
		return repositories.ErrNotFound
	}
	if utf8.RuneCountInString(card.Title) > models.MaxCardTitleLength {
		return errTitleTooLong
	}
	card.ID = s.id()
	c := *card
	s.cards[c.ID] = &c
	return nil
}

func (s *memStore) UpdateCard(_ context.Context, id int64, patch dto.CardPatch) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "UpdateCard")
	c, ok := s.cards[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Title != nil {
		if utf8.RuneCountInString(*patch.Title) > models.MaxCardTitleLength {
			return nil, errTitleTooLong
		}
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Order != nil {
		c.Order = *patch.Order
	}
	if patch.ColumnID != nil {
		c.ColumnID = *patch.ColumnID
	}
	out := *c
	return &out, nil
}

func (s *memStore) DeleteCard(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "DeleteCard")
	if _, ok := s.cards[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.cards, id)
	return nil
}

func (s *memStore) cardCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}
