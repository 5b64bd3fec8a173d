package agents

import (
	"context"
	"fmt"
	"strings"

	"interviewsim/pkg/interview"
	"interviewsim/pkg/llm"
	"interviewsim/pkg/logx"
)

const (
	// MinQuestionLength rejects degenerate model output.
	MinQuestionLength = 10
	maxQuestionLength = 1000
	// recentTurns is how much transcript feeds the prompt, two Q&A pairs.
	recentTurns = 4
)

const interviewerSystemMessage = "You are an expert technical interviewer conducting a professional interview."

// Interviewer generates the next question for the current topic, adapting
// difficulty to how the candidate has been scoring.
type Interviewer struct {
	llm    *llm.StructuredClient
	logger *logx.Logger
}

// NewInterviewer creates the question-generation agent.
func NewInterviewer(client *llm.StructuredClient) *Interviewer {
	return &Interviewer{
		llm:    client,
		logger: logx.NewLogger("interviewer"),
	}
}

// Name implements Agent.
func (a *Interviewer) Name() string { return "interviewer" }

// Execute generates the next question. A model failure or an unusable
// question falls back to a deterministic template so the interview proceeds.
func (a *Interviewer) Execute(ctx context.Context, actx *Context) (*Result, error) {
	topic := actx.Session.CurrentTopic()
	if topic == nil {
		return nil, fmt.Errorf("no current topic for session %s", actx.Session.ID)
	}

	a.logger.Info("generating question for topic %s at depth %s", topic.Name, topic.Depth)

	var q Question
	err := a.llm.GenerateStructured(llm.WithCaller(ctx, a.Name()), llm.StructuredRequest{
		Prompt:        a.buildPrompt(actx, topic),
		SystemMessage: interviewerSystemMessage,
		SchemaHint: `- "question": the interview question to ask
- "reasoning": why this question is relevant (1 sentence)
- "expected_elements": list of 3-5 key points a strong answer should cover`,
		Temperature: llm.TemperatureDefault,
	}, &q)
	if err != nil {
		a.logger.Error("question generation failed: %v", err)
		return &Result{Question: a.fallbackQuestion(topic.Name)}, nil
	}

	q.Text = strings.TrimSpace(q.Text)
	if len(q.Text) < MinQuestionLength || len(q.Text) > maxQuestionLength {
		a.logger.Warn("discarding unusable question (%d chars)", len(q.Text))
		return &Result{Question: a.fallbackQuestion(topic.Name)}, nil
	}
	if len(q.ExpectedElements) == 0 {
		q.ExpectedElements = []string{"Relevant answer", "Specific examples"}
	}

	return &Result{Question: &q}, nil
}

func (a *Interviewer) buildPrompt(actx *Context, topic *interview.Topic) string {
	session := actx.Session
	candidate := session.CandidateProfile
	job := session.JobRequirements

	var recent []string
	history := session.Conversation
	if len(history) > recentTurns {
		history = history[len(history)-recentTurns:]
	}
	for _, msg := range history {
		recent = append(recent, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	recentContext := "No previous questions"
	if len(recent) > 0 {
		recentContext = strings.Join(recent, "\n")
	}

	evalContext := ""
	if n := len(session.Evaluations); n > 0 {
		last := session.Evaluations[n-1]
		evalContext = fmt.Sprintf(`
Previous Response Evaluation:
- Score: %.1f/5.0
- Strengths: %s
- Gaps: %s
`, last.OverallScore, strings.Join(last.Strengths, ", "), strings.Join(last.Gaps, ", "))
	}

	return fmt.Sprintf(`You are conducting a technical interview for the position of %s at %s.

Candidate Background:
- Name: %s
- Experience: %d years
- Skills: %s
- Education: %s

Job Requirements:
- Required Skills: %s
- Responsibilities: %s

Current Topic: %s
Topic Depth: %s (surface = introductory/conceptual, medium = applied practice, deep = implementation/architecture/edge cases)

Recent Conversation:
%s
%s
Generate the next interview question that:
1. Probes the candidate's understanding of %s at %s level
2. Builds naturally from the previous conversation
3. Tests practical application relevant to this role
4. Is appropriate for someone with %d years of experience
5. %s`,
		job.Title, job.Company,
		candidate.Name, candidate.ExperienceYears, strings.Join(candidate.Skills, ", "), candidate.Education,
		strings.Join(job.RequiredSkills, ", "), strings.Join(firstN(job.Responsibilities, 3), ", "),
		topic.Name, topic.Depth,
		recentContext, evalContext,
		topic.Name, topic.Depth,
		candidate.ExperienceYears,
		depthGuidance(topic.Depth),
	)
}

func depthGuidance(depth interview.Depth) string {
	switch depth {
	case interview.DepthSurface:
		return "Explores fundamental concepts and use cases"
	case interview.DepthMedium:
		return "Examines hands-on application, common pitfalls, and practical trade-offs"
	default:
		return "Dives into implementation details, trade-offs, and edge cases"
	}
}

func (a *Interviewer) fallbackQuestion(topic string) *Question {
	return &Question{
		Text:             fmt.Sprintf("Can you describe your experience with %s and how you've applied it in your previous roles?", topic),
		Reasoning:        "Fallback question due to API error",
		ExpectedElements: []string{"Past experience", "Specific examples", "Outcomes"},
		Fallback:         true,
	}
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
