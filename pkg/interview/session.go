package interview

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// MessageRole distinguishes the two sides of the transcript.
type MessageRole string

const (
	RoleInterviewer MessageRole = "interviewer"
	RoleCandidate   MessageRole = "candidate"
)

// Message is one turn in the conversation transcript.
type Message struct {
	Role      MessageRole       `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Topic     string            `json:"topic"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// StateError reports an operation attempted in the wrong session state.
type StateError struct {
	SessionID string
	Status    Status
	Op        string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("session %s: cannot %s in state %s", e.SessionID, e.Op, e.Status)
}

// Session carries the full state of one interview: profiles, topic plan,
// transcript, evaluations and the final report. The transcript and
// evaluation list are append-only.
type Session struct {
	ID               string           `json:"session_id"`
	CandidateProfile CandidateProfile `json:"candidate_profile"`
	JobRequirements  JobRequirements  `json:"job_requirements"`
	Topics           []Topic          `json:"topics"`

	CurrentTopicName  string     `json:"current_topic"`
	CurrentTopicIndex int        `json:"current_topic_index"`
	Status            Status     `json:"status"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           *time.Time `json:"end_time,omitempty"`

	Conversation []Message    `json:"conversation_history"`
	Evaluations  []Evaluation `json:"evaluations"`
	FinalReport  *FinalReport `json:"final_report,omitempty"`

	QuestionsAsked int `json:"questions_asked"`
}

// NewSession creates an active session with a fresh UUID. The first topic in
// the plan becomes the current topic.
func NewSession(profile CandidateProfile, job JobRequirements, topics []Topic) *Session {
	s := &Session{
		ID:               uuid.New().String(),
		CandidateProfile: profile,
		JobRequirements:  job,
		Topics:           topics,
		Status:           StatusActive,
		StartTime:        time.Now().UTC(),
	}
	if len(topics) > 0 {
		s.CurrentTopicName = topics[0].Name
	}
	return s
}

// AddMessage appends a turn to the transcript. Interviewer turns count
// toward the questions-asked total.
func (s *Session) AddMessage(role MessageRole, content, topic string) {
	s.Conversation = append(s.Conversation, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Topic:     topic,
	})
	if role == RoleInterviewer {
		s.QuestionsAsked++
	}
}

// AddEvaluation appends an evaluation to the session.
func (s *Session) AddEvaluation(eval Evaluation) {
	s.Evaluations = append(s.Evaluations, eval)
}

// CurrentTopic returns the topic currently being explored, or nil when the
// plan is exhausted.
func (s *Session) CurrentTopic() *Topic {
	for i := range s.Topics {
		if s.Topics[i].Name == s.CurrentTopicName {
			return &s.Topics[i]
		}
	}
	return nil
}

// SetCurrentTopic switches the session to the named topic, keeping the
// positional index in step. Unknown names are ignored.
func (s *Session) SetCurrentTopic(name string) {
	for i := range s.Topics {
		if s.Topics[i].Name == name {
			s.CurrentTopicName = name
			s.CurrentTopicIndex = i
			return
		}
	}
}

// AverageScore is the mean overall score across every evaluation, or 0 when
// nothing has been scored yet.
func (s *Session) AverageScore() float64 {
	if len(s.Evaluations) == 0 {
		return 0
	}
	var sum float64
	for i := range s.Evaluations {
		sum += s.Evaluations[i].OverallScore
	}
	return sum / float64(len(s.Evaluations))
}

// TopicAverageScore is the mean overall score for one topic, or 0 when that
// topic has no evaluations.
func (s *Session) TopicAverageScore(topicName string) float64 {
	var sum float64
	var count int
	for i := range s.Evaluations {
		if s.Evaluations[i].Topic == topicName {
			sum += s.Evaluations[i].OverallScore
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// TopicEvaluations returns the evaluations recorded for one topic, in order.
func (s *Session) TopicEvaluations(topicName string) []Evaluation {
	var evals []Evaluation
	for i := range s.Evaluations {
		if s.Evaluations[i].Topic == topicName {
			evals = append(evals, s.Evaluations[i])
		}
	}
	return evals
}

// Complete marks the session finished and stamps the end time. Completing an
// already-completed session is a no-op.
func (s *Session) Complete() {
	if s.Status == StatusCompleted {
		return
	}
	s.Status = StatusCompleted
	now := time.Now().UTC()
	s.EndTime = &now
}

// Duration is the elapsed interview time. For active sessions it runs to now.
func (s *Session) Duration() time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}
