// Package interview defines the data model for simulated interview sessions:
// parsed candidate and job profiles, the topic plan, conversation transcript,
// per-answer evaluations and the final report.
package interview

// CandidateProfile holds the structured information extracted from a resume.
type CandidateProfile struct {
	Name            string     `json:"name"`
	Skills          []string   `json:"skills"`
	ExperienceYears int        `json:"experience_years"`
	Education       string     `json:"education"`
	PastRoles       []PastRole `json:"past_roles"`
	Summary         string     `json:"summary,omitempty"`
	RawResume       string     `json:"-"`
}

// PastRole is a single entry in the candidate's work history.
type PastRole struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Duration string `json:"duration,omitempty"`
}

// JobRequirements holds the structured information extracted from a job
// description.
type JobRequirements struct {
	Title              string   `json:"title"`
	Company            string   `json:"company"`
	RequiredSkills     []string `json:"required_skills"`
	PreferredSkills    []string `json:"preferred_skills,omitempty"`
	Responsibilities   []string `json:"responsibilities,omitempty"`
	ExperienceRequired int      `json:"experience_required"`
	RawDescription     string   `json:"-"`
}

// Depth tracks how far questioning has drilled into a topic.
type Depth string

const (
	DepthSurface Depth = "surface"
	DepthMedium  Depth = "medium"
	DepthDeep    Depth = "deep"
)

// Deepen returns the next depth level. DepthDeep is terminal.
func (d Depth) Deepen() Depth {
	switch d {
	case DepthSurface:
		return DepthMedium
	case DepthMedium:
		return DepthDeep
	default:
		return DepthDeep
	}
}

// Topic is one planned interview subject.
type Topic struct {
	Name string `json:"name"`
	// Priority ranks topic importance from 1 to 5, higher first.
	Priority       int   `json:"priority"`
	Depth          Depth `json:"depth"`
	QuestionsAsked int   `json:"questions_asked"`
	Covered        bool  `json:"covered"`
}
