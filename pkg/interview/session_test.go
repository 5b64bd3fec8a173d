package interview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	profile := CandidateProfile{
		Name:            "Jane Doe",
		Skills:          []string{"Go", "PostgreSQL", "Kubernetes"},
		ExperienceYears: 6,
	}
	job := JobRequirements{
		Title:          "Senior Backend Engineer",
		Company:        "Acme",
		RequiredSkills: []string{"Go", "PostgreSQL"},
	}
	topics := []Topic{
		{Name: "Go", Priority: 5, Depth: DepthSurface},
		{Name: "PostgreSQL", Priority: 5, Depth: DepthSurface},
		{Name: "Kubernetes", Priority: 3, Depth: DepthSurface},
	}
	return NewSession(profile, job, topics)
}

func TestNewSession(t *testing.T) {
	s := newTestSession()
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, "Go", s.CurrentTopicName)
	assert.False(t, s.StartTime.IsZero())
	assert.Nil(t, s.EndTime)
}

func TestSessionIDsUnique(t *testing.T) {
	a := newTestSession()
	b := newTestSession()
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddMessageCountsQuestions(t *testing.T) {
	s := newTestSession()
	s.AddMessage(RoleInterviewer, "What is a goroutine?", "Go")
	s.AddMessage(RoleCandidate, "A lightweight thread.", "Go")
	s.AddMessage(RoleInterviewer, "How do channels work?", "Go")

	assert.Equal(t, 2, s.QuestionsAsked)
	require.Len(t, s.Conversation, 3)
	assert.Equal(t, RoleCandidate, s.Conversation[1].Role)
}

func TestCurrentTopic(t *testing.T) {
	s := newTestSession()
	topic := s.CurrentTopic()
	require.NotNil(t, topic)
	assert.Equal(t, "Go", topic.Name)

	// Mutating through the pointer updates session state.
	topic.QuestionsAsked++
	assert.Equal(t, 1, s.Topics[0].QuestionsAsked)

	s.CurrentTopicName = "nonexistent"
	assert.Nil(t, s.CurrentTopic())
}

func TestSetCurrentTopic(t *testing.T) {
	s := newTestSession()

	// Jumping past an intermediate topic keeps name and index in step.
	s.SetCurrentTopic("Kubernetes")
	assert.Equal(t, "Kubernetes", s.CurrentTopicName)
	assert.Equal(t, 2, s.CurrentTopicIndex)

	// Unknown names leave the session untouched.
	s.SetCurrentTopic("nonexistent")
	assert.Equal(t, "Kubernetes", s.CurrentTopicName)
	assert.Equal(t, 2, s.CurrentTopicIndex)
}

func TestAverageScore(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, 0.0, s.AverageScore())

	s.AddEvaluation(NewEvaluation("q1", "a1", "Go", 4, 4, 4, 4))
	s.AddEvaluation(NewEvaluation("q2", "a2", "PostgreSQL", 2, 2, 2, 2))

	assert.InDelta(t, 3.0, s.AverageScore(), 1e-9)
	assert.InDelta(t, 4.0, s.TopicAverageScore("Go"), 1e-9)
	assert.InDelta(t, 2.0, s.TopicAverageScore("PostgreSQL"), 1e-9)
	assert.Equal(t, 0.0, s.TopicAverageScore("Kubernetes"))
}

func TestTopicEvaluations(t *testing.T) {
	s := newTestSession()
	s.AddEvaluation(NewEvaluation("q1", "a1", "Go", 4, 4, 4, 4))
	s.AddEvaluation(NewEvaluation("q2", "a2", "Go", 3, 3, 3, 3))
	s.AddEvaluation(NewEvaluation("q3", "a3", "PostgreSQL", 2, 2, 2, 2))

	evals := s.TopicEvaluations("Go")
	require.Len(t, evals, 2)
	assert.Equal(t, "q1", evals[0].Question)
}

func TestCompleteIdempotent(t *testing.T) {
	s := newTestSession()
	s.Complete()
	require.NotNil(t, s.EndTime)
	first := *s.EndTime

	s.Complete()
	assert.Equal(t, first, *s.EndTime)
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestSessionJSONRoundTrip(t *testing.T) {
	s := newTestSession()
	s.AddMessage(RoleInterviewer, "What is a goroutine?", "Go")
	s.AddMessage(RoleCandidate, "A lightweight thread.", "Go")
	s.AddEvaluation(NewEvaluation("What is a goroutine?", "A lightweight thread.", "Go", 4, 3.5, 4, 4.5))
	s.Complete()

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got Session
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Len(t, got.Conversation, 2)
	require.Len(t, got.Evaluations, 1)
	assert.InDelta(t, 4.0, got.Evaluations[0].OverallScore, 1e-9)
}

func TestStateError(t *testing.T) {
	err := &StateError{SessionID: "abc", Status: StatusCompleted, Op: "submit answer"}
	assert.Contains(t, err.Error(), "abc")
	assert.Contains(t, err.Error(), "submit answer")
	assert.Contains(t, err.Error(), "completed")
}
