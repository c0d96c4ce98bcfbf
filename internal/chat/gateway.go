package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gateway turns a user message plus board snapshot into a structured reply.
// Implementations hold no conversation state and never retry.
type Gateway interface {
	GenerateBoardResponse(ctx context.Context, message string, snapshot Snapshot) (*Response, error)
}

// contentGenerator is the subset of *genai.Models the gateway uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIGateway calls Gemini with a JSON response schema.
type GenAIGateway struct {
	models      contentGenerator
	model       string
	temperature float32
}

// NewGenAIGateway builds a client for the Gemini API. The returned gateway is
// safe for concurrent use and should be created once per process.
func NewGenAIGateway(ctx context.Context, apiKey, model string) (*GenAIGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGenAIGateway(client.Models, model), nil
}

func newGenAIGateway(models contentGenerator, model string) *GenAIGateway {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GenAIGateway{models: models, model: model, temperature: 0.2}
}

func (g *GenAIGateway) GenerateBoardResponse(ctx context.Context, message string, snapshot Snapshot) (*Response, error) {
	prompt, err := buildPrompt(message, snapshot)
	if err != nil {
		return nil, &GatewayError{Reason: "build prompt", Err: err}
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	result, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, &GatewayError{Reason: "generate content", Err: err}
	}
	if result == nil {
		return nil, &GatewayError{Reason: "empty result", Err: errEmptyContent}
	}
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return nil, &GatewayError{Reason: fmt.Sprintf("prompt blocked (%s)", fb.BlockReason)}
	}

	resp, err := DecodeResponse(responseText(result))
	if err != nil {
		return nil, &GatewayError{Reason: "non-conformant output", Err: err}
	}
	return resp, nil
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
