package interview

import (
	"math"
	"time"
)

// Score bounds for every evaluation dimension.
const (
	ScoreMin = 0.0
	ScoreMax = 5.0
	// ScoreNeutral substitutes for dimensions the evaluator could not score.
	ScoreNeutral = 3.0
)

// ClampScore forces a score into the valid range. NaN and infinities map to
// the neutral midpoint rather than an extreme.
func ClampScore(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return ScoreNeutral
	}
	return math.Max(ScoreMin, math.Min(ScoreMax, score))
}

// Evaluation scores one candidate answer across four dimensions.
type Evaluation struct {
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`

	TechnicalAccuracy float64 `json:"technical_accuracy"`
	Depth             float64 `json:"depth"`
	Clarity           float64 `json:"clarity"`
	Relevance         float64 `json:"relevance"`
	OverallScore      float64 `json:"overall_score"`

	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Feedback  string   `json:"feedback"`

	// Fallback marks evaluations produced without the LLM, after the
	// resilience chain gave up. Fallback scores are neutral and should be
	// read as "unscored" rather than "average".
	Fallback bool `json:"fallback,omitempty"`
}

// NewEvaluation builds an evaluation with clamped dimension scores and the
// overall score set to their mean.
func NewEvaluation(question, response, topic string, technicalAccuracy, depth, clarity, relevance float64) Evaluation {
	e := Evaluation{
		Question:          question,
		Response:          response,
		Topic:             topic,
		Timestamp:         time.Now().UTC(),
		TechnicalAccuracy: ClampScore(technicalAccuracy),
		Depth:             ClampScore(depth),
		Clarity:           ClampScore(clarity),
		Relevance:         ClampScore(relevance),
	}
	e.OverallScore = (e.TechnicalAccuracy + e.Depth + e.Clarity + e.Relevance) / 4
	return e
}

// FallbackEvaluation builds the neutral evaluation used when the LLM is
// unavailable, so the interview can continue without scoring the answer.
func FallbackEvaluation(question, response, topic string) Evaluation {
	e := NewEvaluation(question, response, topic, ScoreNeutral, ScoreNeutral, ScoreNeutral, ScoreNeutral)
	e.Feedback = "Thank you for your response."
	e.Fallback = true
	return e
}
