package dto

type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type NewBoard struct {
	Title string `json:"title"`
}

type NewColumn struct {
	Title   string `json:"title"`
	Order   int    `json:"order"`
	BoardID int64  `json:"board_id"`
}

// ColumnPatch carries only the fields a client supplied; nil means unchanged.
type ColumnPatch struct {
	Title *string `json:"title"`
	Order *int    `json:"order"`
}

type NewCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	ColumnID    int64  `json:"column_id"`
}

// CardPatch carries only the fields a client supplied; nil means unchanged.
type CardPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	ColumnID    *int64  `json:"column_id"`
}

func (p CardPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Order == nil && p.ColumnID == nil
}

type ChatRequest struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}
