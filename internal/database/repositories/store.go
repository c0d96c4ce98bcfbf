package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"kanban/internal/database/dto"
	"kanban/internal/database/models"
)

// DefaultColumns seed the board created at registration.
var DefaultColumns = []string{"To Do", "In Progress", "Done"}

const DefaultBoardTitle = "My Board"

// Store groups the repositories behind one value so handlers and the chat
// pipeline depend on a single collaborator.
type Store struct {
	db *sql.DB

	Users   UserRepository
	Boards  BoardRepository
	Columns ColumnRepository
	Cards   CardRepository
	Search  SearchRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		Users:   NewUserRepository(db),
		Boards:  NewBoardRepository(db),
		Columns: NewColumnRepository(db),
		Cards:   NewCardRepository(db),
		Search:  NewSearchRepository(db),
	}
}

// Register creates the user and its default board in one transaction.
func (s *Store) Register(ctx context.Context, user *models.User) (*models.Board, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := NewUserRepository(tx).Create(ctx, user); err != nil {
		return nil, err
	}
	board := &models.Board{Title: DefaultBoardTitle, UserID: user.ID}
	if err := NewBoardRepository(tx).Create(ctx, board); err != nil {
		return nil, err
	}
	columns := NewColumnRepository(tx)
	for i, title := range DefaultColumns {
		col := models.Column{Title: title, Order: i, BoardID: board.ID}
		if err := columns.Create(ctx, &col); err != nil {
			return nil, err
		}
		board.Columns = append(board.Columns, col)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing registration: %w", err)
	}
	return board, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.Users.GetByID(ctx, id)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.Users.GetByUsername(ctx, username)
}

func (s *Store) BoardsByUser(ctx context.Context, userID int64) ([]models.Board, error) {
	return s.Boards.GetByUser(ctx, userID)
}

func (s *Store) FirstBoardID(ctx context.Context, userID int64) (int64, error) {
	return s.Boards.FirstIDByUser(ctx, userID)
}

func (s *Store) Board(ctx context.Context, id int64) (*models.Board, error) {
	return s.Boards.GetByID(ctx, id)
}

func (s *Store) CreateBoard(ctx context.Context, board *models.Board) error {
	return s.Boards.Create(ctx, board)
}

func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	return s.Boards.Delete(ctx, id)
}

func (s *Store) BoardOwner(ctx context.Context, id int64) (int64, error) {
	return s.Boards.Owner(ctx, id)
}

func (s *Store) CreateColumn(ctx context.Context, column *models.Column) error {
	return s.Columns.Create(ctx, column)
}

func (s *Store) UpdateColumn(ctx context.Context, id int64, patch dto.ColumnPatch) (*models.Column, error) {
	return s.Columns.Update(ctx, id, patch)
}

func (s *Store) DeleteColumn(ctx context.Context, id int64) error {
	return s.Columns.Delete(ctx, id)
}

func (s *Store) ColumnOwner(ctx context.Context, id int64) (int64, error) {
	return s.Columns.Owner(ctx, id)
}

func (s *Store) CreateCard(ctx context.Context, card *models.Card) error {
	return s.Cards.Create(ctx, card)
}

func (s *Store) UpdateCard(ctx context.Context, id int64, patch dto.CardPatch) (*models.Card, error) {
	return s.Cards.Update(ctx, id, patch)
}

func (s *Store) DeleteCard(ctx context.Context, id int64) error {
	return s.Cards.Delete(ctx, id)
}

func (s *Store) CardOwner(ctx context.Context, id int64) (int64, error) {
	return s.Cards.Owner(ctx, id)
}

func (s *Store) SearchCards(ctx context.Context, query string, userID int64) ([]models.Card, error) {
	return s.Search.SearchCards(ctx, query, userID)
}
