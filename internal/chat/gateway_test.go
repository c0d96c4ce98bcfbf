package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	result *genai.GenerateContentResponse
	err    error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	return f.result, f.err
}

func textResult(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Role: "model", Parts: parts}},
	}}
}

func TestGenAIGatewayRequest(t *testing.T) {
	models := &fakeModels{result: textResult(
		&genai.Part{Text: "thinking...", Thought: true},
		&genai.Part{Text: `{"response_message":"Added.",`},
		&genai.Part{Text: `"operations":[{"action":"add_card","title":"Laundry","column_name":"To Do"}]}`},
	)}
	gw := newGenAIGateway(models, "")

	resp, err := gw.GenerateBoardResponse(context.Background(), "add laundry", Snapshot{Title: "Home"})
	require.NoError(t, err)
	assert.Equal(t, "Added.", resp.Message)
	assert.Equal(t, []Operation{AddCard{Title: "Laundry", ColumnName: "To Do"}}, resp.Operations)

	assert.Equal(t, "gemini-2.5-flash", models.model)
	require.NotNil(t, models.config)
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)
	require.NotNil(t, models.config.ResponseSchema)
	require.NotNil(t, models.config.SystemInstruction)
	require.Len(t, models.contents, 1)
	assert.Contains(t, models.contents[0].Parts[0].Text, `"board_title":"Home"`)
	assert.Contains(t, models.contents[0].Parts[0].Text, "add laundry")
}

func TestGenAIGatewayErrors(t *testing.T) {
	boom := errors.New("connection refused")
	tests := []struct {
		name   string
		models *fakeModels
	}{
		{"service error", &fakeModels{err: boom}},
		{"nil result", &fakeModels{}},
		{"no candidates", &fakeModels{result: &genai.GenerateContentResponse{}}},
		{"empty text", &fakeModels{result: textResult(&genai.Part{Text: ""})}},
		{"not the schema", &fakeModels{result: textResult(&genai.Part{Text: `{"answer":"4"}`})}},
		{"blocked", &fakeModels{result: &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newGenAIGateway(tt.models, "m")
			resp, err := gw.GenerateBoardResponse(context.Background(), "hi", Snapshot{})
			assert.Nil(t, resp)
			var gwErr *GatewayError
			require.ErrorAs(t, err, &gwErr)
		})
	}

	_, err := newGenAIGateway(&fakeModels{err: boom}, "m").GenerateBoardResponse(context.Background(), "hi", Snapshot{})
	require.ErrorIs(t, err, boom)
}

func TestNewGenAIGatewayRequiresKey(t *testing.T) {
	_, err := NewGenAIGateway(context.Background(), "", "m")
	require.Error(t, err)
}
