package metrics

import (
	"context"
	"time"

	"interviewsim/pkg/llm"
	"interviewsim/pkg/llmerrors"
	"interviewsim/pkg/utils"
)

// UsageExtractor is a function that extracts token usage from a request and response.
type UsageExtractor func(req llm.CompletionRequest, resp llm.CompletionResponse) (promptTokens, completionTokens int)

// DefaultUsageExtractor provides a default implementation using tiktoken for token counting.
func DefaultUsageExtractor(req llm.CompletionRequest, resp llm.CompletionResponse) (promptTokens, completionTokens int) {
	var promptText string
	for i := range req.Messages {
		promptText += req.Messages[i].Content + "\n"
	}
	return utils.CountTokensSimple(promptText), utils.CountTokensSimple(resp.Content)
}

// Middleware returns a middleware function that records metrics for model
// operations: request latency, token usage, and success/failure by error type.
// The agent label is read from the context via llm.WithCaller.
func Middleware(recorder Recorder, usageExtractor UsageExtractor) llm.Middleware {
	if usageExtractor == nil {
		usageExtractor = DefaultUsageExtractor
	}

	return func(next llm.Client) llm.Client {
		return llm.WrapClient(
			func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				start := time.Now()
				resp, err := next.Complete(ctx, req)
				duration := time.Since(start)

				var promptTokens, completionTokens int
				if err == nil {
					promptTokens, completionTokens = usageExtractor(req, resp)
				}

				errorType := ""
				if err != nil {
					errorType = llmerrors.TypeOf(err).String()
				}

				recorder.ObserveRequest(
					next.ModelName(),
					llm.CallerFromContext(ctx),
					promptTokens,
					completionTokens,
					err == nil,
					errorType,
					duration,
				)

				return resp, err //nolint:wrapcheck // Middleware passes through errors unchanged
			},
			func() string {
				return next.ModelName()
			},
		)
	}
}
