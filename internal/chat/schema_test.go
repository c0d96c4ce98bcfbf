package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Response
	}{
		{
			name: "add with defaults",
			text: `{"response_message":"Added.","operations":[{"action":"add_card"}]}`,
			want: &Response{Message: "Added.", Operations: []Operation{
				AddCard{Title: DefaultCardTitle},
			}},
		},
		{
			name: "add with fields",
			text: `{"response_message":"ok","operations":[{"action":"add_card","title":" Laundry ","description":"towels","column_name":"To Do"}]}`,
			want: &Response{Message: "ok", Operations: []Operation{
				AddCard{Title: "Laundry", Description: "towels", ColumnName: "To Do"},
			}},
		},
		{
			name: "update keeps absent fields nil",
			text: `{"response_message":"","operations":[{"action":"update_card","card_id":7,"description":"new"}]}`,
			want: &Response{Operations: []Operation{
				UpdateCard{CardID: 7, Description: ptr("new")},
			}},
		},
		{
			name: "delete",
			text: `{"response_message":"bye","operations":[{"action":"delete_card","card_id":3}]}`,
			want: &Response{Message: "bye", Operations: []Operation{DeleteCard{CardID: 3}}},
		},
		{
			name: "malformed operations are ignored not fatal",
			text: `{"response_message":"m","operations":[
				{"action":"rename_board","title":"x"},
				{"action":"delete_card"},
				{"action":"update_card","card_id":2},
				{"action":"update_card","card_id":2.5,"title":"t"},
				"garbage",
				{"action":"delete_card","card_id":4}
			]}`,
			want: &Response{Message: "m", Operations: []Operation{
				Ignored{Raw: "rename_board", Reason: "unknown action"},
				Ignored{Raw: ActionDeleteCard, Reason: "missing card_id"},
				Ignored{Raw: ActionUpdateCard, Reason: "no fields to update"},
				Ignored{Raw: ActionUpdateCard, Reason: "missing card_id"},
				nil,
				DeleteCard{CardID: 4},
			}},
		},
		{
			name: "blank update title is absent",
			text: `{"response_message":"","operations":[
				{"action":"update_card","card_id":7,"title":"  ","description":"d"},
				{"action":"update_card","card_id":8,"title":""}
			]}`,
			want: &Response{Operations: []Operation{
				UpdateCard{CardID: 7, Description: ptr("d")},
				Ignored{Raw: ActionUpdateCard, Reason: "no fields to update"},
			}},
		},
		{
			name: "missing operations is an empty batch",
			text: "```json\n{\"response_message\":\"hi\"}\n```",
			want: &Response{Message: "hi", Operations: []Operation{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeResponse(tt.text)
			require.NoError(t, err)
			// the undecodable element's reason carries a json error message; compare only its type
			for i, op := range tt.want.Operations {
				if op == nil {
					_, ok := got.Operations[i].(Ignored)
					assert.True(t, ok, "operation %d should be ignored", i)
					got.Operations[i] = nil
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeResponseTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", MaxCardTitleLength+50)
	text := `{"response_message":"ok","operations":[
		{"action":"add_card","title":"` + long + `"},
		{"action":"update_card","card_id":3,"title":"` + strings.Repeat("é", MaxCardTitleLength+1) + `"}
	]}`

	got, err := DecodeResponse(text)
	require.NoError(t, err)
	require.Len(t, got.Operations, 2)

	add := got.Operations[0].(AddCard)
	assert.Equal(t, long[:MaxCardTitleLength], add.Title)

	update := got.Operations[1].(UpdateCard)
	require.NotNil(t, update.Title)
	assert.Equal(t, MaxCardTitleLength, utf8.RuneCountInString(*update.Title))
}

func TestDecodeResponseErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"null",
		"not json",
		`{"operations":[]}`,
		`{"response_message":5,"operations":[]}`,
		`{"response_message":"x","operations":{}}`,
	} {
		_, err := DecodeResponse(text)
		assert.Error(t, err, text)
	}
}

func TestResponseSchemaShape(t *testing.T) {
	s := responseSchema()
	assert.ElementsMatch(t, []string{"response_message", "operations"}, s.Required)

	item := s.Properties["operations"].Items
	require.NotNil(t, item)
	assert.Equal(t, []string{"add_card", "update_card", "delete_card"}, item.Properties["action"].Enum)
	for _, key := range []string{"title", "description", "column_name", "card_id"} {
		assert.Contains(t, item.Properties, key)
	}
	require.NotNil(t, item.Properties["title"].MaxLength)
	assert.EqualValues(t, MaxCardTitleLength, *item.Properties["title"].MaxLength)
}
