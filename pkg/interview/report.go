package interview

import "time"

// Recommendation bands over the overall score.
const (
	RecommendationStrongHire = "Strong Hire"
	RecommendationHire       = "Hire"
	RecommendationMaybe      = "Maybe"
	RecommendationNoHire     = "No Hire"
)

// RecommendationFor maps an overall score to a hiring recommendation.
func RecommendationFor(score float64) string {
	switch {
	case score >= 4.0:
		return RecommendationStrongHire
	case score >= 3.5:
		return RecommendationHire
	case score >= 3.0:
		return RecommendationMaybe
	default:
		return RecommendationNoHire
	}
}

// TopicSummary aggregates performance within one topic.
type TopicSummary struct {
	Topic               string   `json:"topic"`
	QuestionsCount      int      `json:"questions_count"`
	AverageScore        float64  `json:"average_score"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
}

// FinalReport is the complete interview assessment produced at finalization.
type FinalReport struct {
	SessionID       string    `json:"session_id"`
	CandidateName   string    `json:"candidate_name"`
	JobTitle        string    `json:"job_title"`
	InterviewDate   time.Time `json:"interview_date"`
	DurationMinutes float64   `json:"duration_minutes"`

	TotalQuestions int      `json:"total_questions"`
	TopicsCovered  []string `json:"topics_covered"`
	OverallScore   float64  `json:"overall_score"`

	TopicSummaries []TopicSummary `json:"topic_summaries"`

	OverallStrengths    []string `json:"overall_strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Recommendation      string   `json:"recommendation"`
	AdditionalNotes     string   `json:"additional_notes,omitempty"`
}
