// Package orchestrator coordinates the interview loop: it owns the parsing
// and topic-planning phase, drives the interviewer, evaluator and topic
// manager through each turn, and assembles the final report.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interviewsim/pkg/agents"
	"interviewsim/pkg/config"
	"interviewsim/pkg/interview"
	"interviewsim/pkg/llm"
	"interviewsim/pkg/logx"
	"interviewsim/pkg/parse"
	"interviewsim/pkg/validate"
)

// expectedElementsKey stores the interviewer's expected answer points in
// message metadata so the evaluator can recover them next turn.
const expectedElementsKey = "expected_elements"

const reportSystemMessage = "You are an expert interviewer providing final feedback."

// TurnResult is the outcome of processing one candidate answer.
type TurnResult struct {
	Evaluation          *interview.Evaluation
	Transitioned        bool
	TransitionReasoning string
	// NextQuestion is nil when the interview completed on this turn.
	NextQuestion *agents.Question
	Complete     bool
}

// Orchestrator runs interview sessions end to end. It is safe for use by a
// single goroutine per session; sessions themselves are not shared.
type Orchestrator struct {
	interviewer  *agents.Interviewer
	evaluator    *agents.Evaluator
	topicManager *agents.TopicManager
	llm          *llm.StructuredClient

	resumeParser *parse.ResumeParser
	jobParser    *parse.JobParser
	planner      *parse.TopicPlanner

	cfg    config.InterviewConfig
	logger *logx.Logger
}

// New creates an orchestrator sharing one structured client across agents.
func New(client *llm.StructuredClient, cfg config.InterviewConfig) *Orchestrator {
	return &Orchestrator{
		interviewer:  agents.NewInterviewer(client),
		evaluator:    agents.NewEvaluator(client),
		topicManager: agents.NewTopicManager(client),
		llm:          client,
		resumeParser: parse.NewResumeParser(),
		jobParser:    parse.NewJobParser(),
		planner:      parse.NewTopicPlanner(),
		cfg:          cfg,
		logger:       logx.NewLogger("orchestrator"),
	}
}

// Start validates and parses the inputs, derives the topic plan, creates an
// active session and asks the first question.
func (o *Orchestrator) Start(ctx context.Context, resumeText, jobText string) (*interview.Session, *agents.Question, error) {
	profile, err := o.resumeParser.Parse(resumeText)
	if err != nil {
		return nil, nil, err
	}
	job, err := o.jobParser.Parse(jobText)
	if err != nil {
		return nil, nil, err
	}

	topics := o.planner.Plan(profile, job, o.cfg.TotalTopicsTarget)
	if len(topics) == 0 {
		return nil, nil, fmt.Errorf("no interview topics could be derived")
	}

	session := interview.NewSession(profile, job, topics)
	o.logger.Info("created session %s for %s (%d topics)", session.ID, profile.Name, len(topics))

	question, err := o.askQuestion(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	return session, question, nil
}

// SubmitAnswer records the candidate's answer, evaluates it, applies the
// topic transition decision and either asks the next question or completes
// the session. The evaluation is recorded even when the interview ends.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, session *interview.Session, answer string) (*TurnResult, error) {
	if session.Status != interview.StatusActive {
		return nil, &interview.StateError{SessionID: session.ID, Status: session.Status, Op: "submit answer"}
	}

	oversized := len(answer) > validate.MaxAnswerLength
	answer, err := validate.Answer(answer, o.cfg.StrictAnswerScreening)
	if err != nil {
		return nil, err
	}
	if oversized {
		o.logger.Warn("answer for session %s exceeded %d bytes, truncated", session.ID, validate.MaxAnswerLength)
	}

	topic := session.CurrentTopic()
	if topic == nil {
		return nil, fmt.Errorf("session %s has no current topic", session.ID)
	}

	session.AddMessage(interview.RoleCandidate, answer, topic.Name)

	question, expectedElements := lastQuestion(session)
	evalResult, err := o.evaluator.Execute(ctx, &agents.Context{
		Session:          session,
		Question:         question,
		Answer:           answer,
		ExpectedElements: expectedElements,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluating answer: %w", err)
	}
	evaluation := evalResult.Evaluation
	session.AddEvaluation(*evaluation)

	topic.QuestionsAsked++

	flowResult, err := o.topicManager.Execute(ctx, &agents.Context{
		Session:              session,
		MinQuestionsPerTopic: o.cfg.QuestionsPerTopicMin,
		MaxQuestionsPerTopic: o.cfg.QuestionsPerTopicMax,
	})
	if err != nil {
		return nil, fmt.Errorf("deciding topic transition: %w", err)
	}
	transition := flowResult.Transition

	result := &TurnResult{
		Evaluation:          evaluation,
		TransitionReasoning: transition.Reasoning,
	}

	switch {
	case transition.ShouldTransition && transition.Terminal:
		topic.Covered = true
		session.Complete()
		result.Complete = true
		o.logger.Info("session %s complete after %d questions", session.ID, session.QuestionsAsked)
		return result, nil

	case transition.ShouldTransition:
		topic.Covered = true
		session.SetCurrentTopic(transition.NextTopic)
		if next := session.CurrentTopic(); next != nil && transition.NextDepth != "" {
			next.Depth = transition.NextDepth
		}
		result.Transitioned = true
		o.logger.Info("session %s transitioning to topic %s", session.ID, transition.NextTopic)

	default:
		if transition.NextDepth != "" {
			topic.Depth = transition.NextDepth
		}
	}

	next, err := o.askQuestion(ctx, session)
	if err != nil {
		return nil, err
	}
	result.NextQuestion = next
	return result, nil
}

// Finalize completes the session if needed and builds the final report.
// Repeated calls on an unchanged session return the same report.
func (o *Orchestrator) Finalize(ctx context.Context, session *interview.Session) (*interview.FinalReport, error) {
	if session.FinalReport != nil {
		return session.FinalReport, nil
	}

	o.logger.Info("generating final report for session %s", session.ID)
	session.Complete()

	var summaries []interview.TopicSummary
	for _, topic := range session.Topics {
		evals := session.TopicEvaluations(topic.Name)
		if !topic.Covered || len(evals) == 0 {
			continue
		}
		var strengths, gaps []string
		for _, e := range evals {
			strengths = append(strengths, e.Strengths...)
			gaps = append(gaps, e.Gaps...)
		}
		summaries = append(summaries, interview.TopicSummary{
			Topic:               topic.Name,
			QuestionsCount:      len(evals),
			AverageScore:        session.TopicAverageScore(topic.Name),
			Strengths:           firstN(strengths, 3),
			AreasForImprovement: firstN(gaps, 2),
		})
	}

	var allStrengths, allGaps []string
	for _, e := range session.Evaluations {
		allStrengths = append(allStrengths, e.Strengths...)
		allGaps = append(allGaps, e.Gaps...)
	}
	allStrengths = dedupe(allStrengths)
	allGaps = dedupe(allGaps)

	overall := session.AverageScore()
	topicsCovered := make([]string, len(summaries))
	for i, s := range summaries {
		topicsCovered[i] = s.Topic
	}

	report := &interview.FinalReport{
		SessionID:           session.ID,
		CandidateName:       session.CandidateProfile.Name,
		JobTitle:            session.JobRequirements.Title,
		InterviewDate:       session.StartTime,
		DurationMinutes:     session.Duration().Minutes(),
		TotalQuestions:      session.QuestionsAsked,
		TopicsCovered:       topicsCovered,
		OverallScore:        overall,
		TopicSummaries:      summaries,
		OverallStrengths:    firstN(allStrengths, 5),
		AreasForImprovement: firstN(allGaps, 5),
		Recommendation:      interview.RecommendationFor(overall),
	}

	notes, err := o.llm.GenerateText(ctx, o.buildSummaryPrompt(session, report), reportSystemMessage)
	if err != nil {
		o.logger.Error("narrative summary failed: %v", err)
		notes = fmt.Sprintf("Candidate demonstrated %.1f/5.0 performance across %d topics.", overall, len(summaries))
	}
	report.AdditionalNotes = notes

	session.FinalReport = report
	return report, nil
}

func (o *Orchestrator) buildSummaryPrompt(session *interview.Session, report *interview.FinalReport) string {
	var strengths, gaps strings.Builder
	for _, s := range firstN(report.OverallStrengths, 5) {
		fmt.Fprintf(&strengths, "- %s\n", s)
	}
	for _, g := range firstN(report.AreasForImprovement, 5) {
		fmt.Fprintf(&gaps, "- %s\n", g)
	}

	return fmt.Sprintf(`Generate a brief final interview summary.

Candidate: %s
Position: %s
Topics Covered: %s
Overall Score: %.1f/5.0
Total Questions: %d

Key Strengths Demonstrated:
%s
Areas for Improvement:
%s
Provide 2-3 sentences summarizing the candidate's performance and readiness for the role.`,
		report.CandidateName, report.JobTitle, strings.Join(report.TopicsCovered, ", "),
		report.OverallScore, report.TotalQuestions,
		strengths.String(), gaps.String(),
	)
}

// askQuestion generates and records the next interviewer turn.
func (o *Orchestrator) askQuestion(ctx context.Context, session *interview.Session) (*agents.Question, error) {
	result, err := o.interviewer.Execute(ctx, &agents.Context{Session: session})
	if err != nil {
		return nil, fmt.Errorf("generating question: %w", err)
	}
	question := result.Question

	session.Conversation = append(session.Conversation, interview.Message{
		Role:      interview.RoleInterviewer,
		Content:   question.Text,
		Timestamp: time.Now().UTC(),
		Topic:     session.CurrentTopicName,
		Metadata: map[string]string{
			expectedElementsKey: strings.Join(question.ExpectedElements, "\n"),
		},
	})
	session.QuestionsAsked++
	return question, nil
}

// lastQuestion recovers the most recent interviewer turn and its expected
// answer points from the transcript.
func lastQuestion(session *interview.Session) (string, []string) {
	for i := len(session.Conversation) - 1; i >= 0; i-- {
		msg := session.Conversation[i]
		if msg.Role != interview.RoleInterviewer {
			continue
		}
		var expected []string
		if raw := msg.Metadata[expectedElementsKey]; raw != "" {
			expected = strings.Split(raw, "\n")
		}
		return msg.Content, expected
	}
	return "", nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
