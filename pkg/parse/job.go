package parse

import (
	"regexp"
	"strconv"
	"strings"

	"interviewsim/pkg/interview"
	"interviewsim/pkg/logx"
	"interviewsim/pkg/validate"
)

const (
	maxTitleLength       = 250
	maxRequiredSkills    = 10
	maxPreferredSkills   = 5
	maxResponsibilities  = 8
	minRequirementLength = 5
	minDutyLength        = 10
)

var (
	companyRe              = regexp.MustCompile(`(?i)Company:\s*(.+)`)
	requirementsHeaderRe   = regexp.MustCompile(`(?i)Requirements?:`)
	responsibilityHeaderRe = regexp.MustCompile(`(?i)Responsibilities?:`)
	preferredHeaderRes     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Preferred:`),
		regexp.MustCompile(`(?i)Nice to have:`),
		regexp.MustCompile(`(?i)Bonus:`),
	}
	jobSectionBoundaryRe = regexp.MustCompile(`\n[A-Z][a-z]+:`)
	requiredYearsRe      = regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s*)?experience`)
)

// JobParser turns validated job description text into structured requirements.
type JobParser struct {
	logger *logx.Logger
}

// NewJobParser creates a job description parser.
func NewJobParser() *JobParser {
	return &JobParser{logger: logx.NewLogger("job-parser")}
}

// Parse validates, sanitizes and extracts requirements from a job description.
func (p *JobParser) Parse(jdText string) (interview.JobRequirements, error) {
	p.logger.Info("parsing job description")

	text, err := validate.JobDescription(jdText)
	if err != nil {
		p.logger.Error("job description validation failed: %v", err)
		return interview.JobRequirements{}, err
	}

	title := "Unknown Position"
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			title = s
			break
		}
	}
	if len(title) > maxTitleLength {
		cut := title[:maxTitleLength]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		title = cut + "..."
	}

	job := interview.JobRequirements{
		Title:              title,
		Company:            extractCompany(text),
		RequiredSkills:     extractListSection(text, requirementsHeaderRe, minRequirementLength, maxRequiredSkills),
		PreferredSkills:    extractPreferredSkills(text),
		Responsibilities:   extractListSection(text, responsibilityHeaderRe, minDutyLength, maxResponsibilities),
		ExperienceRequired: extractRequiredYears(text),
		RawDescription:     text,
	}

	p.logger.Info("parsed job: %s at %s", job.Title, job.Company)
	return job, nil
}

func extractCompany(text string) string {
	if m := companyRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "Unknown Company"
}

// extractListSection pulls the bullet or line items under a section header.
func extractListSection(text string, header *regexp.Regexp, minLength, limit int) []string {
	body := sectionAfter(text, header, []*regexp.Regexp{jobSectionBoundaryRe})
	if body == "" {
		return nil
	}

	var items []string
	for _, line := range strings.Split(body, "\n") {
		item := strings.Trim(line, "- •\t")
		if len(item) > minLength {
			items = append(items, item)
		}
	}
	return firstN(items, limit)
}

func extractPreferredSkills(text string) []string {
	var skills []string
	for _, header := range preferredHeaderRes {
		skills = append(skills, extractListSection(text, header, minRequirementLength, maxPreferredSkills)...)
	}
	return firstN(skills, maxPreferredSkills)
}

func extractRequiredYears(text string) int {
	if m := requiredYearsRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}
