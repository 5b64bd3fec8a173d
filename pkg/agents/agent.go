// Package agents implements the three LLM-backed roles that drive an
// interview: the interviewer that generates questions, the evaluator that
// scores answers, and the topic manager that controls flow. Every agent
// degrades to a deterministic fallback when the model is unavailable, so a
// session never dies mid-interview.
package agents

import (
	"context"

	"interviewsim/pkg/interview"
)

// Context carries the session state and per-call inputs an agent needs.
type Context struct {
	Session *interview.Session

	// Question and Answer feed the evaluator.
	Question         string
	Answer           string
	ExpectedElements []string

	// Topic flow bounds.
	MinQuestionsPerTopic int
	MaxQuestionsPerTopic int
}

// Question is the interviewer's output.
type Question struct {
	Text             string   `json:"question"`
	Reasoning        string   `json:"reasoning"`
	ExpectedElements []string `json:"expected_elements"`
	// Fallback marks questions produced without the LLM.
	Fallback bool `json:"-"`
}

// Transition is the topic manager's output.
type Transition struct {
	ShouldTransition bool
	NextTopic        string
	NextDepth        interview.Depth
	// Terminal means no uncovered topics remain and the interview is over.
	Terminal  bool
	Reasoning string
}

// Result is the union of agent outputs; each agent populates its own field.
type Result struct {
	Question   *Question
	Evaluation *interview.Evaluation
	Transition *Transition
}

// Agent is one role in the interview loop.
type Agent interface {
	Name() string
	Execute(ctx context.Context, actx *Context) (*Result, error)
}
