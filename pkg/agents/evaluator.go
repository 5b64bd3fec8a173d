package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"interviewsim/pkg/interview"
	"interviewsim/pkg/llm"
	"interviewsim/pkg/logx"
)

const evaluatorSystemMessage = "You are an expert technical interviewer providing constructive feedback."

// Evaluator scores a candidate answer across four dimensions.
type Evaluator struct {
	llm    *llm.StructuredClient
	logger *logx.Logger
}

// NewEvaluator creates the answer-scoring agent.
func NewEvaluator(client *llm.StructuredClient) *Evaluator {
	return &Evaluator{
		llm:    client,
		logger: logx.NewLogger("evaluator"),
	}
}

// Name implements Agent.
func (a *Evaluator) Name() string { return "evaluator" }

// evalPayload holds the raw model output. Score fields decode as any so one
// malformed dimension degrades to the neutral score instead of discarding
// the whole evaluation.
type evalPayload struct {
	TechnicalAccuracy any      `json:"technical_accuracy"`
	Depth             any      `json:"depth"`
	Clarity           any      `json:"clarity"`
	Relevance         any      `json:"relevance"`
	Strengths         []string `json:"strengths"`
	Gaps              []string `json:"gaps"`
	Feedback          string   `json:"feedback"`
}

// Execute evaluates the answer in actx.Question/actx.Answer for the current
// topic. Model failure produces the neutral fallback evaluation.
func (a *Evaluator) Execute(ctx context.Context, actx *Context) (*Result, error) {
	topicName := actx.Session.CurrentTopicName
	a.logger.Info("evaluating response for topic %s", topicName)

	var payload evalPayload
	err := a.llm.GenerateStructured(llm.WithCaller(ctx, a.Name()), llm.StructuredRequest{
		Prompt:        a.buildPrompt(actx),
		SystemMessage: evaluatorSystemMessage,
		SchemaHint: `- "technical_accuracy": number 0-5
- "depth": number 0-5
- "clarity": number 0-5
- "relevance": number 0-5
- "strengths": array of 2-3 strings
- "gaps": array of 1-2 strings
- "feedback": constructive feedback, 2-3 sentences`,
		Temperature: llm.TemperatureScoring,
	}, &payload)
	if err != nil {
		a.logger.Error("evaluation failed: %v", err)
		eval := a.fallbackEvaluation(actx, topicName)
		return &Result{Evaluation: &eval}, nil
	}

	eval := interview.NewEvaluation(
		actx.Question, actx.Answer, topicName,
		scoreOf(payload.TechnicalAccuracy),
		scoreOf(payload.Depth),
		scoreOf(payload.Clarity),
		scoreOf(payload.Relevance),
	)
	eval.Strengths = payload.Strengths
	eval.Gaps = payload.Gaps
	eval.Feedback = payload.Feedback
	if eval.Feedback == "" {
		eval.Feedback = "Thank you for your response."
	}

	a.logger.Info("evaluation complete, overall %.2f", eval.OverallScore)
	return &Result{Evaluation: &eval}, nil
}

// scoreOf coerces a model-provided score to a float64. Numbers pass through,
// numeric strings parse, anything else becomes the neutral score. Bounds are
// enforced later by the evaluation constructor.
func scoreOf(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return interview.ScoreNeutral
}

func (a *Evaluator) buildPrompt(actx *Context) string {
	var expected strings.Builder
	for _, elem := range actx.ExpectedElements {
		fmt.Fprintf(&expected, "- %s\n", elem)
	}

	return fmt.Sprintf(`Evaluate the following interview response:

Question: %s

Candidate's Response:
%s

Expected Key Points:
%s
Candidate Experience Level: %d years

Evaluate the response on these dimensions (0-5 scale):
1. **Technical Accuracy**: Correctness of information and concepts
2. **Depth of Understanding**: How deeply the candidate understands the topic
3. **Communication Clarity**: How clearly the candidate explains their thoughts
4. **Relevance**: How well the response addresses the question

Provide:
- Scores for each dimension (0.0 to 5.0)
- 2-3 specific strengths in the response
- 1-2 gaps or areas that could be improved
- Constructive feedback (2-3 sentences)`,
		actx.Question, actx.Answer, expected.String(), actx.Session.CandidateProfile.ExperienceYears,
	)
}

func (a *Evaluator) fallbackEvaluation(actx *Context, topicName string) interview.Evaluation {
	eval := interview.FallbackEvaluation(actx.Question, actx.Answer, topicName)
	eval.Strengths = []string{"Response provided"}
	eval.Gaps = []string{"Unable to evaluate due to technical error"}
	eval.Feedback = "Thank you for your response. Due to a technical issue, we'll continue with the next question."
	return eval
}
