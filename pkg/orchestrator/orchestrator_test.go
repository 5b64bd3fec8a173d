package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewsim/pkg/config"
	"interviewsim/pkg/interview"
	"interviewsim/pkg/llm"
)

const testResume = `Jane Doe
Senior Software Engineer

Skills: Go, PostgreSQL, Kubernetes

Experience:
- Senior Engineer, Acme Corp (2019-2023)

8 years of experience building distributed systems.`

const testJD = `Senior Backend Engineer
Company: Widgets Inc

Requirements:
- Strong Go experience in production
- PostgreSQL schema design and tuning`

const questionJSON = `{"question": "How do goroutines differ from OS threads?", "reasoning": "fundamentals", "expected_elements": ["Scheduling", "Stacks"]}`

const evalJSON = `{"technical_accuracy": 4, "depth": 4, "clarity": 4, "relevance": 4, "strengths": ["Clear"], "gaps": ["Brevity"], "feedback": "Good answer."}`

func testConfig() config.InterviewConfig {
	return config.InterviewConfig{
		QuestionsPerTopicMin: 2,
		QuestionsPerTopicMax: 4,
		TotalTopicsTarget:    5,
	}
}

func newOrchestrator(results ...llm.MockResult) (*llm.MockClient, *Orchestrator) {
	mock := llm.NewMockClient(results...)
	return mock, New(llm.NewStructuredClient(mock, 0), testConfig())
}

func TestStartCreatesSessionAndFirstQuestion(t *testing.T) {
	_, o := newOrchestrator(llm.MockResponse(questionJSON))

	session, question, err := o.Start(context.Background(), testResume, testJD)
	require.NoError(t, err)

	assert.Equal(t, interview.StatusActive, session.Status)
	assert.Equal(t, "Jane Doe", session.CandidateProfile.Name)
	assert.NotEmpty(t, session.Topics)
	require.NotNil(t, question)
	assert.Equal(t, "How do goroutines differ from OS threads?", question.Text)
	assert.Equal(t, 1, session.QuestionsAsked)
	require.Len(t, session.Conversation, 1)
	assert.Equal(t, interview.RoleInterviewer, session.Conversation[0].Role)
	assert.Contains(t, session.Conversation[0].Metadata["expected_elements"], "Scheduling")
}

func TestStartRejectsInvalidInputs(t *testing.T) {
	_, o := newOrchestrator(llm.MockResponse(questionJSON))

	_, _, err := o.Start(context.Background(), "", testJD)
	assert.Error(t, err)

	_, _, err = o.Start(context.Background(), testResume, "too short")
	assert.Error(t, err)
}

func TestSubmitAnswerStaysOnTopic(t *testing.T) {
	_, o := newOrchestrator(
		llm.MockResponse(questionJSON),
		llm.MockResponse(evalJSON),
		llm.MockResponse(questionJSON),
	)

	session, _, err := o.Start(context.Background(), testResume, testJD)
	require.NoError(t, err)
	firstTopic := session.CurrentTopicName

	result, err := o.SubmitAnswer(context.Background(), session, "They are scheduled by the Go runtime.")
	require.NoError(t, err)

	assert.False(t, result.Complete)
	assert.False(t, result.Transitioned)
	require.NotNil(t, result.NextQuestion)
	require.NotNil(t, result.Evaluation)
	assert.InDelta(t, 4.0, result.Evaluation.OverallScore, 1e-9)
	assert.Equal(t, firstTopic, session.CurrentTopicName)
	assert.Equal(t, 1, session.CurrentTopic().QuestionsAsked)
	assert.Len(t, session.Evaluations, 1)
	// interviewer, candidate, interviewer
	assert.Len(t, session.Conversation, 3)
}

func TestSubmitAnswerTransitionsAtMaximum(t *testing.T) {
	_, o := newOrchestrator(
		llm.MockResponse(questionJSON),
		llm.MockResponse(evalJSON),
		llm.MockResponse(`{"next_topic": "PostgreSQL", "reasoning": "natural progression"}`),
		llm.MockResponse(questionJSON),
	)

	session, _, err := o.Start(context.Background(), testResume, testJD)
	require.NoError(t, err)
	first := session.CurrentTopic()
	first.QuestionsAsked = 3

	result, err := o.SubmitAnswer(context.Background(), session, "An answer.")
	require.NoError(t, err)

	assert.True(t, result.Transitioned)
	assert.True(t, first.Covered)
	assert.Equal(t, "PostgreSQL", session.CurrentTopicName)
	assert.Equal(t, 1, session.CurrentTopicIndex)
	require.NotNil(t, result.NextQuestion)
	assert.False(t, result.Complete)
}

func TestSubmitAnswerTransitionToNonAdjacentTopic(t *testing.T) {
	_, o := newOrchestrator(
		llm.MockResponse(questionJSON),
		llm.MockResponse(evalJSON),
		llm.MockResponse(`{"next_topic": "Kubernetes", "reasoning": "candidate strength"}`),
		llm.MockResponse(questionJSON),
	)

	session, _, err := o.Start(context.Background(), testResume, testJD)
	require.NoError(t, err)
	session.CurrentTopic().QuestionsAsked = 3

	result, err := o.SubmitAnswer(context.Background(), session, "An answer.")
	require.NoError(t, err)

	require.True(t, result.Transitioned)
	assert.Equal(t, "Kubernetes", session.CurrentTopicName)
	// The index must follow the chosen topic's position, not step by one.
	want := -1
	for i, topic := range session.Topics {
		if topic.Name == "Kubernetes" {
			want = i
		}
	}
	require.Greater(t, want, 1, "fixture must place Kubernetes past the adjacent slot")
	assert.Equal(t, want, session.CurrentTopicIndex)
}

func TestSubmitAnswerCompletesWhenNoTopicsRemain(t *testing.T) {
	_, o := newOrchestrator(
		llm.MockResponse(questionJSON),
		llm.MockResponse(evalJSON),
	)

	session, _, err := o.Start(context.Background(), testResume, testJD)
	require.NoError(t, err)
	for i := 1; i < len(session.Topics); i++ {
		session.Topics[i].Covered = true
	}
	session.CurrentTopic().QuestionsAsked = 3

	result, err := o.SubmitAnswer(context.Background(), session, "A final answer.")
	require.NoError(t, err)

	assert.True(t, result.Complete)
	assert.Nil(t, result.NextQuestion)
	assert.Equal(t, interview.StatusCompleted, session.Status)
	assert.NotNil(t, session.EndTime)
	// The final answer is still evaluated.
	assert.Len(t, session.Evaluations, 1)
}

func TestSubmitAnswerRejectsCompletedSession(t *testing.T) {
	_, o := newOrchestrator(llm.MockResponse(questionJSON))

	session, _, err := o.Start(context.Background(), testResume, testJD)
	require.NoError(t, err)
	session.Complete()

	_, err = o.SubmitAnswer(context.Background(), session, "hello")
	require.Error(t, err)
	var stateErr *interview.StateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestInterviewSurvivesModelOutage(t *testing.T) {
	_, o := newOrchestrator(llm.MockError(errors.New("provider down")))

	session, question, err := o.Start(context.Background(), testResume, testJD)
	require.NoError(t, err)
	require.NotNil(t, question)
	assert.True(t, question.Fallback)

	result, err := o.SubmitAnswer(context.Background(), session, "An answer during the outage.")
	require.NoError(t, err)

	assert.True(t, result.Evaluation.Fallback)
	assert.Equal(t, interview.ScoreNeutral, result.Evaluation.OverallScore)
	require.NotNil(t, result.NextQuestion)
	assert.True(t, result.NextQuestion.Fallback)
	assert.Equal(t, interview.StatusActive, session.Status)
}

func TestFinalizeBuildsReport(t *testing.T) {
	mock, o := newOrchestrator(llm.MockResponse("The candidate performed well and is ready for the role."))

	session := completedSession()
	report, err := o.Finalize(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, session.ID, report.SessionID)
	assert.Equal(t, "Jane Doe", report.CandidateName)
	assert.InDelta(t, 4.0, report.OverallScore, 1e-9)
	assert.Equal(t, interview.RecommendationStrongHire, report.Recommendation)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, report.TopicsCovered)
	require.Len(t, report.TopicSummaries, 2)
	assert.Equal(t, 2, report.TopicSummaries[0].QuestionsCount)
	assert.Contains(t, report.AdditionalNotes, "ready for the role")
	assert.Equal(t, interview.StatusCompleted, session.Status)
	assert.Equal(t, 1, mock.Calls())
}

func TestFinalizeDeduplicatesFindings(t *testing.T) {
	_, o := newOrchestrator(llm.MockResponse("Summary."))

	session := completedSession()
	report, err := o.Finalize(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, []string{"Clear communication", "Solid SQL"}, report.OverallStrengths)
	assert.Equal(t, []string{"More depth needed"}, report.AreasForImprovement)
}

func TestFinalizeIdempotent(t *testing.T) {
	mock, o := newOrchestrator(llm.MockResponse("Summary."))

	session := completedSession()
	first, err := o.Finalize(context.Background(), session)
	require.NoError(t, err)
	second, err := o.Finalize(context.Background(), session)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, mock.Calls())
}

func TestFinalizeNarrativeFallback(t *testing.T) {
	_, o := newOrchestrator(llm.MockError(errors.New("provider down")))

	report, err := o.Finalize(context.Background(), completedSession())
	require.NoError(t, err)
	assert.Contains(t, report.AdditionalNotes, "4.0/5.0 performance")
}

func completedSession() *interview.Session {
	profile := interview.CandidateProfile{Name: "Jane Doe", Skills: []string{"Go", "PostgreSQL"}}
	job := interview.JobRequirements{Title: "Senior Backend Engineer"}
	topics := []interview.Topic{
		{Name: "Go", Priority: 5, Covered: true, QuestionsAsked: 2},
		{Name: "PostgreSQL", Priority: 5, Covered: true, QuestionsAsked: 2},
	}
	session := interview.NewSession(profile, job, topics)
	session.QuestionsAsked = 4

	for _, topic := range []string{"Go", "Go", "PostgreSQL", "PostgreSQL"} {
		eval := interview.NewEvaluation("q", "a", topic, 4, 4, 4, 4)
		if topic == "Go" {
			eval.Strengths = []string{"Clear communication"}
			eval.Gaps = []string{"More depth needed"}
		} else {
			eval.Strengths = []string{"Clear communication", "Solid SQL"}
			eval.Gaps = []string{"More depth needed"}
		}
		session.AddEvaluation(eval)
	}
	return session
}
