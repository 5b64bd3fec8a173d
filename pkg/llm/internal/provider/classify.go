// Package provider holds shared error classification for the raw LLM clients.
// Each provider SDK surfaces failures differently; this maps them onto the
// llmerrors taxonomy so the retry and circuit layers can dispatch on type.
package provider

import (
	"context"
	"errors"
	"strings"

	"interviewsim/pkg/llmerrors"
)

// Classify maps an SDK or transport error to a structured error type.
func Classify(err error) *llmerrors.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeTransient, err, "request timeout")
	}
	if errors.Is(err, context.Canceled) {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeTransient, err, "request canceled")
	}

	errStr := err.Error()

	// SDKs usually embed the HTTP status in the error message.
	switch extractStatusCode(errStr) {
	case 401:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeAuth, 401, "authentication failed, check API key")
	case 403:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeAuth, 403, "permission denied, check API access")
	case 429:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeRateLimit, 429, "rate limit exceeded")
	case 400:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeBadPrompt, 400, "bad request, check prompt format and parameters")
	case 500:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeTransient, 500, "server error")
	case 502:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeTransient, 502, "server error")
	case 503:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeTransient, 503, "server error")
	case 504:
		return llmerrors.NewErrorWithStatus(llmerrors.ErrorTypeTransient, 504, "server error")
	}

	lower := strings.ToLower(errStr)

	if strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "connection") ||
		strings.Contains(lower, "network") ||
		strings.Contains(lower, "temporary") ||
		strings.Contains(lower, "eof") ||
		strings.Contains(lower, "reset") {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeTransient, err, "network or connection error")
	}

	if strings.Contains(lower, "rate") ||
		strings.Contains(lower, "quota") ||
		strings.Contains(lower, "overloaded") {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeRateLimit, err, "rate limiting detected")
	}

	if strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "api key") ||
		strings.Contains(lower, "auth") {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeAuth, err, "authentication error")
	}

	if strings.Contains(lower, "invalid") ||
		strings.Contains(lower, "malformed") ||
		strings.Contains(lower, "too large") {
		return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeBadPrompt, err, "prompt or request error")
	}

	return llmerrors.NewErrorWithCause(llmerrors.ErrorTypeUnknown, err, "unclassified error")
}

var knownStatusCodes = []string{"400", "401", "403", "429", "500", "502", "503", "504"}

// extractStatusCode scans an error message for an HTTP status code.
func extractStatusCode(errStr string) int {
	lower := strings.ToLower(errStr)
	for _, pattern := range []string{"status code: ", "status: ", "http ", "code "} {
		idx := strings.Index(lower, pattern)
		if idx == -1 {
			continue
		}
		rest := errStr[idx+len(pattern):]
		for _, code := range knownStatusCodes {
			if strings.HasPrefix(rest, code) {
				n := 0
				for _, c := range code {
					n = n*10 + int(c-'0')
				}
				return n
			}
		}
	}
	return 0
}
