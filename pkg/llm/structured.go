package llm

import (
	"context"
	"fmt"
	"time"

	"interviewsim/pkg/llmerrors"
	"interviewsim/pkg/logx"
)

const jsonDirective = "\n\nIMPORTANT: Return your response as a single valid JSON object. " +
	"Do not include any text before or after the JSON."

// StructuredRequest describes a prompt whose response must parse into a
// caller-provided structure.
type StructuredRequest struct {
	Prompt        string
	SystemMessage string
	// SchemaHint is a human-readable description of the expected fields,
	// appended to the prompt so the model knows the target shape.
	SchemaHint  string
	Temperature float32
	MaxTokens   int
}

// StructuredClient turns free-text completions into structured results,
// enforcing a per-call timeout and recovering embedded JSON from prose.
type StructuredClient struct {
	client  Client
	timeout time.Duration
	logger  *logx.Logger
}

// NewStructuredClient wraps a (typically middleware-chained) Client.
// A non-positive timeout disables the per-call deadline.
func NewStructuredClient(client Client, timeout time.Duration) *StructuredClient {
	return &StructuredClient{
		client:  client,
		timeout: timeout,
		logger:  logx.NewLogger("llm-structured"),
	}
}

// ModelName returns the underlying model identifier.
func (s *StructuredClient) ModelName() string {
	return s.client.ModelName()
}

// GenerateStructured sends the prompt and parses the response into out.
// Parsing tries a strict JSON parse first, then embedded-block extraction;
// if every strategy fails the returned error is classified as
// invalid_response, which callers recover from via their fallback path.
func (s *StructuredClient) GenerateStructured(ctx context.Context, req StructuredRequest, out any) error {
	prompt := req.Prompt
	if req.SchemaHint != "" {
		prompt += "\n\nReturn JSON with these fields:\n" + req.SchemaHint
	}
	prompt += jsonDirective

	content, err := s.complete(ctx, prompt, req.SystemMessage, req.Temperature, req.MaxTokens)
	if err != nil {
		return err
	}

	if !UnmarshalStructured(content, out) {
		stub := content
		if len(stub) > 200 {
			stub = stub[:200]
		}
		s.logger.Warn("structured parse failed for %s: %q", s.client.ModelName(), stub)
		return llmerrors.NewError(llmerrors.ErrorTypeInvalidResponse,
			fmt.Sprintf("response did not contain a parseable JSON object (%d bytes)", len(content)))
	}
	return nil
}

// GenerateText sends the prompt and returns the raw completion text.
// Used for narrative output such as the final report summary.
func (s *StructuredClient) GenerateText(ctx context.Context, prompt, systemMessage string) (string, error) {
	return s.complete(ctx, prompt, systemMessage, TemperatureDefault, DefaultMaxTokens)
}

func (s *StructuredClient) complete(ctx context.Context, prompt, systemMessage string, temperature float32, maxTokens int) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	messages := make([]CompletionMessage, 0, 2)
	if systemMessage != "" {
		messages = append(messages, NewSystemMessage(systemMessage))
	}
	messages = append(messages, NewUserMessage(prompt))

	req := NewCompletionRequest(messages)
	if temperature > 0 {
		req.Temperature = temperature
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		return "", err //nolint:wrapcheck // Classified errors pass through for caller dispatch
	}
	if resp.Content == "" {
		return "", llmerrors.NewError(llmerrors.ErrorTypeEmptyResponse, "received empty completion")
	}
	return resp.Content, nil
}
