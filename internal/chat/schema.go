package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"kanban/internal/database/models"

	"google.golang.org/genai"
)

// Action names the closed set of mutations the assistant may propose.
type Action string

const (
	ActionAddCard    Action = "add_card"
	ActionUpdateCard Action = "update_card"
	ActionDeleteCard Action = "delete_card"
)

// DefaultCardTitle is used when an add_card operation carries no title.
const DefaultCardTitle = "New Card"

// MaxCardTitleLength caps proposed titles; longer ones are truncated.
const MaxCardTitleLength = models.MaxCardTitleLength

// Operation is one proposed board mutation. The concrete types are AddCard,
// UpdateCard, DeleteCard and Ignored; the applier switches over exactly these.
type Operation interface {
	Action() Action
}

type AddCard struct {
	Title       string
	Description string
	// ColumnName is matched case-insensitively; empty means "first column".
	ColumnName string
}

func (AddCard) Action() Action { return ActionAddCard }

// UpdateCard overwrites only the non-nil fields.
type UpdateCard struct {
	CardID      int64
	Title       *string
	Description *string
}

func (UpdateCard) Action() Action { return ActionUpdateCard }

type DeleteCard struct {
	CardID int64
}

func (DeleteCard) Action() Action { return ActionDeleteCard }

// Ignored stands in for an operation that was unknown or malformed. It is
// carried through so the skip can be logged, never applied.
type Ignored struct {
	Raw    Action
	Reason string
}

func (i Ignored) Action() Action { return i.Raw }

// Response is the decoded reply of the model.
type Response struct {
	Message    string
	Operations []Operation
}

// rawOperation mirrors the wire shape of one element of "operations".
type rawOperation struct {
	Action      string       `json:"action"`
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	ColumnName  *string      `json:"column_name"`
	CardID      *json.Number `json:"card_id"`
}

type rawResponse struct {
	ResponseMessage *string           `json:"response_message"`
	Operations      []json.RawMessage `json:"operations"`
}

var errEmptyContent = errors.New("empty content")

// DecodeResponse parses the model's JSON text. A missing response_message or
// undecodable envelope is an error; individual operations that fail to decode
// become Ignored so one bad element never discards the batch.
func DecodeResponse(text string) (*Response, error) {
	text = stripFences(text)
	if text == "" || text == "null" {
		return nil, errEmptyContent
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if raw.ResponseMessage == nil {
		return nil, errors.New("decode response: missing response_message")
	}

	resp := &Response{
		Message:    *raw.ResponseMessage,
		Operations: make([]Operation, 0, len(raw.Operations)),
	}
	for _, element := range raw.Operations {
		var op rawOperation
		if err := json.Unmarshal(element, &op); err != nil {
			resp.Operations = append(resp.Operations, Ignored{Reason: "undecodable operation: " + err.Error()})
			continue
		}
		resp.Operations = append(resp.Operations, parseOperation(op))
	}
	return resp, nil
}

func parseOperation(op rawOperation) Operation {
	action := Action(strings.TrimSpace(op.Action))
	switch action {
	case ActionAddCard:
		add := AddCard{Title: DefaultCardTitle}
		if title := cleanTitle(op.Title); title != nil {
			add.Title = *title
		}
		if op.Description != nil {
			add.Description = *op.Description
		}
		if op.ColumnName != nil {
			add.ColumnName = strings.TrimSpace(*op.ColumnName)
		}
		return add

	case ActionUpdateCard:
		id, ok := cardID(op.CardID)
		if !ok {
			return Ignored{Raw: action, Reason: "missing card_id"}
		}
		// a blank title never clears an existing one
		title := cleanTitle(op.Title)
		if title == nil && op.Description == nil {
			return Ignored{Raw: action, Reason: "no fields to update"}
		}
		return UpdateCard{CardID: id, Title: title, Description: op.Description}

	case ActionDeleteCard:
		id, ok := cardID(op.CardID)
		if !ok {
			return Ignored{Raw: action, Reason: "missing card_id"}
		}
		return DeleteCard{CardID: id}

	default:
		return Ignored{Raw: action, Reason: "unknown action"}
	}
}

// cleanTitle trims and truncates a proposed title. Absent or blank is nil.
func cleanTitle(title *string) *string {
	if title == nil {
		return nil
	}
	t := strings.TrimSpace(*title)
	if t == "" {
		return nil
	}
	if utf8.RuneCountInString(t) > MaxCardTitleLength {
		t = strings.TrimSpace(string([]rune(t)[:MaxCardTitleLength]))
	}
	return &t
}

func cardID(n *json.Number) (int64, bool) {
	if n == nil {
		return 0, false
	}
	id, err := n.Int64()
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// responseSchema is handed to the model so decoding is constrained to the
// envelope DecodeResponse expects.
func responseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	maxTitle := int64(MaxCardTitleLength)
	title := str("Card title for add_card or update_card.")
	title.MaxLength = &maxTitle
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"response_message": str("Reply shown to the user."),
			"operations": {
				Type:        genai.TypeArray,
				Description: "Board changes to apply, in order. Empty when nothing should change.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"action": {
							Type: genai.TypeString,
							Enum: []string{string(ActionAddCard), string(ActionUpdateCard), string(ActionDeleteCard)},
						},
						"title":       title,
						"description": str("Card description for add_card or update_card."),
						"column_name": str("Target column title for add_card."),
						"card_id": {
							Type:        genai.TypeInteger,
							Description: "Existing card id for update_card or delete_card.",
						},
					},
					Required:         []string{"action"},
					PropertyOrdering: []string{"action", "card_id", "column_name", "title", "description"},
				},
			},
		},
		Required:         []string{"response_message", "operations"},
		PropertyOrdering: []string{"response_message", "operations"},
	}
}
