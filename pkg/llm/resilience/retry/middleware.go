package retry

import (
	"context"
	"fmt"
	"time"

	"interviewsim/pkg/llm"
	"interviewsim/pkg/llmerrors"
	"interviewsim/pkg/logx"
)

// Middleware returns a middleware function that wraps a model client with
// retry logic. Failed requests are retried according to the configured
// policy with exponential backoff, and every attempt is logged with its
// latency.
func Middleware(policy *Policy, logger *logx.Logger) llm.Middleware {
	if logger == nil {
		logger = logx.NewLogger("llm-retry")
	}

	return func(next llm.Client) llm.Client {
		return llm.WrapClient(
			func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				var lastErr error

				for attempt := 1; attempt <= policy.Config.MaxAttempts; attempt++ {
					if attempt > 1 {
						delay := policy.CalculateDelay(attempt)
						if delay > 0 {
							logger.Info("retrying %s in %s (attempt %d/%d)",
								next.ModelName(), delay.Round(time.Millisecond), attempt, policy.Config.MaxAttempts)
							select {
							case <-ctx.Done():
								return llm.CompletionResponse{}, fmt.Errorf("retry cancelled: %w", ctx.Err())
							case <-time.After(delay):
							}
						}
					}

					start := time.Now()
					resp, err := next.Complete(ctx, req)
					latency := time.Since(start).Round(time.Millisecond)
					if err == nil {
						logger.Debug("%s attempt %d succeeded in %s", next.ModelName(), attempt, latency)
						return resp, nil
					}

					lastErr = err
					logger.Warn("%s attempt %d failed in %s: %v", next.ModelName(), attempt, latency, err)

					if !policy.ShouldRetry(err) {
						break
					}

					if attempt >= policy.Config.MaxAttempts {
						break
					}
				}

				// Exhausting retries on a retryable error becomes a
				// service-unavailable signal so agents fall back instead of
				// retrying again upstream.
				if policy.ShouldRetry(lastErr) {
					return llm.CompletionResponse{}, llmerrors.NewServiceUnavailableError(lastErr, policy.Config.MaxAttempts)
				}
				return llm.CompletionResponse{}, lastErr
			},
			func() string {
				return next.ModelName()
			},
		)
	}
}
