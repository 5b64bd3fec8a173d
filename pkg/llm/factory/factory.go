// Package factory constructs LLM clients with the full middleware chain.
package factory

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"interviewsim/pkg/config"
	"interviewsim/pkg/llm"
	"interviewsim/pkg/llm/internal/provider/anthropic"
	"interviewsim/pkg/llm/internal/provider/google"
	"interviewsim/pkg/llm/internal/provider/openai"
	"interviewsim/pkg/llm/middleware/metrics"
	"interviewsim/pkg/llm/resilience/circuit"
	"interviewsim/pkg/llm/resilience/retry"
	"interviewsim/pkg/logx"
)

// Provider identifies which vendor serves a model.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

// ProviderForModel infers the provider from the model name prefix.
func ProviderForModel(model string) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(name, "claude"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(name, "gpt"), strings.HasPrefix(name, "o1"),
		strings.HasPrefix(name, "o3"), strings.HasPrefix(name, "o4"):
		return ProviderOpenAI, nil
	case strings.HasPrefix(name, "gemini"):
		return ProviderGoogle, nil
	default:
		return "", fmt.Errorf("cannot determine provider for model %q", model)
	}
}

// Factory builds middleware-wrapped clients from configuration. The circuit
// breaker and metrics recorder are shared across every client it creates.
type Factory struct {
	cfg      config.Config
	recorder metrics.Recorder
	breaker  circuit.Breaker
	logger   *logx.Logger
}

// New creates a factory. registry may be nil to disable metrics collection.
func New(cfg config.Config, registry prometheus.Registerer) *Factory {
	var recorder metrics.Recorder
	if registry != nil {
		recorder = metrics.NewPrometheusRecorder(cfg.LLM.MetricsNamespace, registry)
	} else {
		recorder = metrics.Nop()
	}

	breaker := circuit.New(circuit.Config{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		SuccessThreshold: cfg.Breaker.SuccessThreshold,
		RecoveryTimeout:  cfg.Breaker.RecoveryTimeout(),
	})

	return &Factory{
		cfg:      cfg,
		recorder: recorder,
		breaker:  breaker,
		logger:   logx.NewLogger("llm-factory"),
	}
}

// Breaker exposes the shared circuit breaker, mainly for status reporting.
func (f *Factory) Breaker() circuit.Breaker {
	return f.breaker
}

// CreateClient builds a client for the configured model with the chain
// metrics -> retry -> circuit -> raw, so each retry attempt passes through
// the breaker and an open breaker fails fast without burning attempts.
func (f *Factory) CreateClient() (llm.Client, error) {
	return f.CreateClientForModel(f.cfg.LLM.Model)
}

// CreateClientForModel builds a client for a specific model name.
func (f *Factory) CreateClientForModel(model string) (llm.Client, error) {
	prov, err := ProviderForModel(model)
	if err != nil {
		return nil, err
	}

	var raw llm.Client
	switch prov {
	case ProviderAnthropic:
		if f.cfg.LLM.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set for model %s", model)
		}
		raw = anthropic.New(f.cfg.LLM.AnthropicAPIKey, model)
	case ProviderOpenAI:
		if f.cfg.LLM.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set for model %s", model)
		}
		raw = openai.New(f.cfg.LLM.OpenAIAPIKey, model)
	case ProviderGoogle:
		if f.cfg.LLM.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set for model %s", model)
		}
		raw = google.New(f.cfg.LLM.GeminiAPIKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", prov)
	}

	retryPolicy := retry.NewPolicy(retry.Config{
		MaxAttempts:   f.cfg.LLM.MaxRetries + 1,
		InitialDelay:  retry.DefaultConfig.InitialDelay,
		MaxDelay:      retry.DefaultConfig.MaxDelay,
		BackoffFactor: retry.DefaultConfig.BackoffFactor,
		Jitter:        true,
	}, nil)

	client := llm.Chain(raw,
		metrics.Middleware(f.recorder, nil),
		retry.Middleware(retryPolicy, f.logger),
		circuit.Middleware(f.breaker),
	)
	return client, nil
}
