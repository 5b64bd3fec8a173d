package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewsim/pkg/interview"
	"interviewsim/pkg/llm"
)

func TestEvaluatorScoresAnswer(t *testing.T) {
	mock, client := structured(llm.MockResponse(`{
		"technical_accuracy": 4.5,
		"depth": 4.0,
		"clarity": 3.5,
		"relevance": 4.0,
		"strengths": ["Clear explanation", "Good example"],
		"gaps": ["No mention of trade-offs"],
		"feedback": "Strong answer overall."
	}`))
	agent := NewEvaluator(client)

	result, err := agent.Execute(context.Background(), &Context{
		Session:  testSession(),
		Question: "How do goroutines differ from OS threads?",
		Answer:   "They are scheduled by the runtime and start with small stacks.",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Evaluation)

	eval := result.Evaluation
	assert.Equal(t, 4.5, eval.TechnicalAccuracy)
	assert.InDelta(t, 4.0, eval.OverallScore, 1e-9)
	assert.Equal(t, "Go", eval.Topic)
	assert.False(t, eval.Fallback)
	assert.Len(t, eval.Strengths, 2)
	assert.Equal(t, 1, mock.Calls())
}

func TestEvaluatorClampsOutOfRangeScores(t *testing.T) {
	_, client := structured(llm.MockResponse(`{
		"technical_accuracy": 9.0,
		"depth": -2.0,
		"clarity": 4.0,
		"relevance": 4.0,
		"strengths": [], "gaps": [], "feedback": "ok"
	}`))
	agent := NewEvaluator(client)

	result, err := agent.Execute(context.Background(), &Context{Session: testSession(), Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.Evaluation.TechnicalAccuracy)
	assert.Equal(t, 0.0, result.Evaluation.Depth)
}

func TestEvaluatorCoercesStringScores(t *testing.T) {
	_, client := structured(llm.MockResponse(`{
		"technical_accuracy": "4.0",
		"depth": "nonsense",
		"clarity": 3.0,
		"relevance": null,
		"strengths": [], "gaps": [], "feedback": "ok"
	}`))
	agent := NewEvaluator(client)

	result, err := agent.Execute(context.Background(), &Context{Session: testSession(), Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Evaluation.TechnicalAccuracy)
	assert.Equal(t, interview.ScoreNeutral, result.Evaluation.Depth)
	assert.Equal(t, interview.ScoreNeutral, result.Evaluation.Relevance)
}

func TestEvaluatorFallbackOnError(t *testing.T) {
	_, client := structured(llm.MockError(errors.New("model down")))
	agent := NewEvaluator(client)

	result, err := agent.Execute(context.Background(), &Context{Session: testSession(), Question: "q", Answer: "a"})
	require.NoError(t, err)

	eval := result.Evaluation
	assert.True(t, eval.Fallback)
	assert.Equal(t, interview.ScoreNeutral, eval.OverallScore)
	assert.Contains(t, eval.Feedback, "technical issue")
}

func TestEvaluatorFallbackOnUnparseableOutput(t *testing.T) {
	_, client := structured(llm.MockResponse("I think the answer was decent."))
	agent := NewEvaluator(client)

	result, err := agent.Execute(context.Background(), &Context{Session: testSession(), Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.True(t, result.Evaluation.Fallback)
}

func TestEvaluatorPromptIncludesExpectedElements(t *testing.T) {
	mock, client := structured(llm.MockResponse(`{"technical_accuracy": 3, "depth": 3, "clarity": 3, "relevance": 3, "strengths": [], "gaps": [], "feedback": "ok"}`))
	agent := NewEvaluator(client)

	_, err := agent.Execute(context.Background(), &Context{
		Session:          testSession(),
		Question:         "q",
		Answer:           "a",
		ExpectedElements: []string{"Scheduling", "Stack growth"},
	})
	require.NoError(t, err)

	prompt := mock.LastRequest().Messages[1].Content
	assert.Contains(t, prompt, "- Scheduling")
	assert.Contains(t, prompt, "- Stack growth")
	assert.Contains(t, prompt, "6 years")
}
