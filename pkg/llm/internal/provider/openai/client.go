// Package openai provides the raw OpenAI client behind the llm.Client interface.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"interviewsim/pkg/llm"
	"interviewsim/pkg/llm/internal/provider"
	"interviewsim/pkg/llmerrors"
)

// Client wraps the official OpenAI SDK using the Responses API.
// Middleware is applied at a higher level.
type Client struct {
	client openai.Client
	model  string
}

// New creates a raw OpenAI client for the given model.
func New(apiKey, model string) *Client {
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Complete implements llm.Client.
func (c *Client) Complete(ctx context.Context, in llm.CompletionRequest) (llm.CompletionResponse, error) {
	if len(in.Messages) == 0 {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeBadPrompt, "message list cannot be empty")
	}

	// The Responses API takes a single input string, so fold the
	// conversation into labeled turns.
	var input strings.Builder
	for i := range in.Messages {
		msg := &in.Messages[i]
		switch msg.Role {
		case llm.RoleSystem:
			fmt.Fprintf(&input, "System: %s\n\n", msg.Content)
		case llm.RoleAssistant:
			fmt.Fprintf(&input, "Assistant: %s\n\n", msg.Content)
		default:
			input.WriteString(msg.Content)
			input.WriteString("\n\n")
		}
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(int64(in.MaxTokens)),
		Temperature:     openai.Float(float64(in.Temperature)),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(strings.TrimSpace(input.String()))},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, provider.Classify(err)
	}
	if resp == nil {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "received empty response from OpenAI API")
	}

	content := resp.OutputText()
	if content == "" {
		return llm.CompletionResponse{}, llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "OpenAI response contained no text output")
	}

	return llm.CompletionResponse{Content: content}, nil
}

// ModelName implements llm.Client.
func (c *Client) ModelName() string {
	return c.model
}
