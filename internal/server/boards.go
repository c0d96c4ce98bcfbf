package server

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"kanban/internal/chat"
	"kanban/internal/database/dto"
	"kanban/internal/database/models"

	"github.com/gofiber/fiber/v2"
)

func (s *FiberServer) getUserBoards(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	target, err := paramID(c)
	if err != nil {
		return err
	}
	if target != uid {
		return chat.ErrForbidden
	}
	boards, err := s.store.BoardsByUser(c.Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(boards)
}

func (s *FiberServer) createBoard(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	req := dto.NewBoard{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title = strings.TrimSpace(req.Title); req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	board := models.Board{Title: req.Title, UserID: uid}
	if err := s.store.CreateBoard(c.Context(), &board); err != nil {
		return err
	}
	return c.JSON(board)
}

func (s *FiberServer) getBoard(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := s.authorize(c, s.boardOwner, id); err != nil {
		return err
	}
	board, err := s.store.Board(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(board)
}

func (s *FiberServer) deleteBoard(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := s.authorize(c, s.boardOwner, id); err != nil {
		return err
	}
	if err := s.store.DeleteBoard(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "board deleted successfully"})
}

func (s *FiberServer) createColumn(c *fiber.Ctx) error {
	req := dto.NewColumn{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title = strings.TrimSpace(req.Title); req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	if _, err := s.authorize(c, s.boardOwner, req.BoardID); err != nil {
		return err
	}
	column := models.Column{Title: req.Title, Order: req.Order, BoardID: req.BoardID}
	if err := s.store.CreateColumn(c.Context(), &column); err != nil {
		return err
	}
	return c.JSON(column)
}

func (s *FiberServer) updateColumn(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	patch := dto.ColumnPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if _, err := s.authorize(c, s.columnOwner, id); err != nil {
		return err
	}
	column, err := s.store.UpdateColumn(c.Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(column)
}

func (s *FiberServer) deleteColumn(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := s.authorize(c, s.columnOwner, id); err != nil {
		return err
	}
	if err := s.store.DeleteColumn(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "column deleted successfully"})
}

func (s *FiberServer) createCard(c *fiber.Ctx) error {
	req := dto.NewCard{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title = strings.TrimSpace(req.Title); req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	if err := checkCardTitle(req.Title); err != nil {
		return err
	}
	if _, err := s.authorize(c, s.columnOwner, req.ColumnID); err != nil {
		return err
	}
	card := models.Card{Title: req.Title, Description: req.Description, Order: req.Order, ColumnID: req.ColumnID}
	if err := s.store.CreateCard(c.Context(), &card); err != nil {
		return err
	}
	return c.JSON(card)
}

func (s *FiberServer) updateCard(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	patch := dto.CardPatch{}
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if patch.Empty() {
		return fiber.NewError(fiber.StatusBadRequest, "nothing to update")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title cannot be empty")
		}
		if err := checkCardTitle(title); err != nil {
			return err
		}
		patch.Title = &title
	}
	if _, err := s.authorize(c, s.cardOwner, id); err != nil {
		return err
	}
	// moving a card requires owning the destination too
	if patch.ColumnID != nil {
		if _, err := s.authorize(c, s.columnOwner, *patch.ColumnID); err != nil {
			return err
		}
	}
	card, err := s.store.UpdateCard(c.Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(card)
}

func (s *FiberServer) deleteCard(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := s.authorize(c, s.cardOwner, id); err != nil {
		return err
	}
	if err := s.store.DeleteCard(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "card deleted successfully"})
}

func (s *FiberServer) searchCards(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	cards, err := s.store.SearchCards(c.Context(), c.Query("q"), uid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cards": cards})
}

func checkCardTitle(title string) error {
	if utf8.RuneCountInString(title) > models.MaxCardTitleLength {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("title must be at most %d characters", models.MaxCardTitleLength))
	}
	return nil
}
