// Package google provides the raw Gemini client behind the llm.Client interface.
package google

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"interviewsim/pkg/llm"
	"interviewsim/pkg/llm/internal/provider"
	"interviewsim/pkg/llmerrors"
)

// Client wraps the Google GenAI SDK. Middleware is applied at a higher level.
// The underlying genai client needs a context to construct, so it is created
// lazily on first call.
type Client struct {
	client *genai.Client
	apiKey string
	model  string
}

// New creates a raw Gemini client for the given model.
func New(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
	}
}

// Complete implements llm.Client.
func (g *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	if g.client == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return llm.CompletionResponse{}, provider.Classify(err)
		}
		g.client = client
	}

	contents, systemInstruction, err := convertMessages(in.Messages)
	if err != nil {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeBadPrompt, fmt.Sprintf("message conversion error: %v", err))
	}

	//nolint:gosec // MaxTokens validated at a higher layer
	maxTokens := int32(in.MaxTokens)
	config := &genai.GenerateContentConfig{
		Temperature:     &in.Temperature,
		MaxOutputTokens: maxTokens,
	}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return llm.CompletionResponse{}, provider.Classify(err)
	}
	if result == nil || result.Text() == "" {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "received empty response from Gemini API")
	}

	resp := llm.CompletionResponse{Content: result.Text()}
	if len(result.Candidates) > 0 {
		resp.StopReason = string(result.Candidates[0].FinishReason)
	}
	return resp, nil
}

// ModelName implements llm.Client.
func (g *Client) ModelName() string {
	return g.model
}

// convertMessages maps the completion messages to Gemini content, pulling
// system messages out into the system instruction.
func convertMessages(messages []llm.CompletionMessage) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("message list cannot be empty")
	}

	var systemInstruction string
	var contents []*genai.Content
	for i := range messages {
		msg := &messages[i]
		switch msg.Role {
		case llm.RoleSystem:
			if systemInstruction != "" {
				systemInstruction += "\n\n"
			}
			systemInstruction += msg.Content
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	if len(contents) == 0 {
		return nil, "", fmt.Errorf("must have at least one non-system message")
	}
	return contents, systemInstruction, nil
}
