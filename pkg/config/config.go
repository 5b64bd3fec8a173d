// Package config provides configuration loading and validation for the
// interview engine.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then environment variable overrides. The loaded Config is passed by value
// to consumers; nothing in this package holds mutable global state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Interview flow defaults.
const (
	DefaultTimeoutSeconds       = 30
	DefaultMaxRetries           = 3
	DefaultQuestionsPerTopicMin = 2
	DefaultQuestionsPerTopicMax = 4
	DefaultTotalTopicsTarget    = 5
)

// Circuit breaker defaults.
const (
	DefaultBreakerFailureThreshold      = 5
	DefaultBreakerRecoveryTimeoutSecond = 60
	DefaultBreakerSuccessThreshold      = 2
)

// LLMConfig holds model client settings.
type LLMConfig struct {
	Model            string `yaml:"model"`
	OpenAIAPIKey     string `yaml:"openai_api_key"`
	AnthropicAPIKey  string `yaml:"anthropic_api_key"`
	GeminiAPIKey     string `yaml:"gemini_api_key"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	MaxRetries       int    `yaml:"max_retries"`
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// Timeout returns the per-call timeout as a duration.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// InterviewConfig holds interview flow settings.
type InterviewConfig struct {
	QuestionsPerTopicMin int `yaml:"questions_per_topic_min"`
	QuestionsPerTopicMax int `yaml:"questions_per_topic_max"`
	TotalTopicsTarget    int `yaml:"total_topics_target"`

	// StrictAnswerScreening runs candidate answers through the
	// security-pattern stage in addition to size and sanitization.
	StrictAnswerScreening bool `yaml:"strict_answer_screening"`
}

// BreakerConfig holds circuit breaker settings shared by all model calls.
type BreakerConfig struct {
	FailureThreshold       int `yaml:"failure_threshold"`
	RecoveryTimeoutSeconds int `yaml:"recovery_timeout_seconds"`
	SuccessThreshold       int `yaml:"success_threshold"`
}

// RecoveryTimeout returns the OPEN-state cooldown as a duration.
func (c *BreakerConfig) RecoveryTimeout() time.Duration {
	return time.Duration(c.RecoveryTimeoutSeconds) * time.Second
}

// Config is the top-level configuration for the engine.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Interview InterviewConfig `yaml:"interview"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	DataDir   string          `yaml:"data_dir"`
}

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Model:            "gpt-4o",
			TimeoutSeconds:   DefaultTimeoutSeconds,
			MaxRetries:       DefaultMaxRetries,
			MetricsNamespace: "interviewsim",
		},
		Interview: InterviewConfig{
			QuestionsPerTopicMin: DefaultQuestionsPerTopicMin,
			QuestionsPerTopicMax: DefaultQuestionsPerTopicMax,
			TotalTopicsTarget:    DefaultTotalTopicsTarget,
		},
		Breaker: BreakerConfig{
			FailureThreshold:       DefaultBreakerFailureThreshold,
			RecoveryTimeoutSeconds: DefaultBreakerRecoveryTimeoutSecond,
			SuccessThreshold:       DefaultBreakerSuccessThreshold,
		},
		DataDir: "data",
	}
}

// Load builds a Config from defaults, an optional YAML file, and environment
// overrides, then validates it. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.LLM.Model, "INTERVIEW_MODEL")
	setString(&cfg.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&cfg.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	setInt(&cfg.LLM.TimeoutSeconds, "TIMEOUT_SECONDS")
	setInt(&cfg.LLM.MaxRetries, "MAX_RETRIES")
	setInt(&cfg.Interview.QuestionsPerTopicMin, "QUESTIONS_PER_TOPIC_MIN")
	setInt(&cfg.Interview.QuestionsPerTopicMax, "QUESTIONS_PER_TOPIC_MAX")
	setInt(&cfg.Interview.TotalTopicsTarget, "TOTAL_TOPICS_TARGET")
	setBool(&cfg.Interview.StrictAnswerScreening, "STRICT_ANSWER_SCREENING")
	setInt(&cfg.Breaker.FailureThreshold, "BREAKER_FAILURE_THRESHOLD")
	setInt(&cfg.Breaker.RecoveryTimeoutSeconds, "BREAKER_RECOVERY_TIMEOUT_SECONDS")
	setInt(&cfg.Breaker.SuccessThreshold, "BREAKER_SUCCESS_THRESHOLD")
	setString(&cfg.DataDir, "DATA_DIR")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model cannot be empty")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", c.LLM.MaxRetries)
	}
	if c.Interview.QuestionsPerTopicMin < 1 {
		return fmt.Errorf("questions_per_topic_min must be at least 1, got %d", c.Interview.QuestionsPerTopicMin)
	}
	if c.Interview.QuestionsPerTopicMin > c.Interview.QuestionsPerTopicMax {
		return fmt.Errorf("questions_per_topic_min (%d) cannot exceed questions_per_topic_max (%d)",
			c.Interview.QuestionsPerTopicMin, c.Interview.QuestionsPerTopicMax)
	}
	if c.Interview.TotalTopicsTarget < 1 {
		return fmt.Errorf("total_topics_target must be at least 1, got %d", c.Interview.TotalTopicsTarget)
	}
	if c.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("breaker failure_threshold must be at least 1, got %d", c.Breaker.FailureThreshold)
	}
	if c.Breaker.SuccessThreshold < 1 {
		return fmt.Errorf("breaker success_threshold must be at least 1, got %d", c.Breaker.SuccessThreshold)
	}
	if c.Breaker.RecoveryTimeoutSeconds < 1 {
		return fmt.Errorf("breaker recovery_timeout_seconds must be at least 1, got %d", c.Breaker.RecoveryTimeoutSeconds)
	}
	return nil
}
