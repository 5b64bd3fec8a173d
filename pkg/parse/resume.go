// Package parse extracts structured candidate and job data from raw text and
// derives the prioritized topic plan for an interview. Extraction is
// heuristic, section headers and keyword scans, with conservative defaults
// when a field cannot be found.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"interviewsim/pkg/interview"
	"interviewsim/pkg/logx"
	"interviewsim/pkg/validate"
)

// Extraction limits.
const (
	maxSkills    = 15
	maxPastRoles = 5
)

// genericSkills stands in when a resume yields no recognizable skills, so
// topic derivation always has something to work with.
var genericSkills = []string{"Problem Solving", "Communication", "Teamwork"}

var techKeywords = []string{
	"Python", "JavaScript", "Java", "C++", "React", "Node.js", "AWS", "Docker",
	"Kubernetes", "SQL", "MongoDB", "Git", "Linux", "TypeScript", "Go", "Ruby",
	"Django", "Flask", "Vue", "Angular", "PostgreSQL", "Redis", "Jenkins",
}

var (
	skillsHeaderRe    = regexp.MustCompile(`(?i)Skills?:`)
	skillSplitRe      = regexp.MustCompile(`[,;\n•\-]`)
	experienceYearsRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
		regexp.MustCompile(`(?i)experience[:\s]+(\d+)\+?\s*years?`),
	}
	calendarYearRe    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	educationHeaderRe = regexp.MustCompile(`(?i)Education:`)
	degreeRes         = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(Bachelor|Master|PhD|B\.S\.|M\.S\.|B\.A\.|M\.A\.)[^\n]*`),
		regexp.MustCompile(`(?i)\b(BS|MS|BA|MA)\s+(?:in\s+)?[\w ]+`),
	}
	experienceHeaderRe = regexp.MustCompile(`(?i)Experience:`)
	roleEntryRes       = []*regexp.Regexp{
		regexp.MustCompile(`[-•]\s*([^()\n]+?)\s*\((\d{4}[-–]\d{4}|\d{4}[-–]Present)\)`),
		regexp.MustCompile(`([A-Z][^(\n]{10,50}?)\s*\((\d{4}[-–]\d{4}|\d{4}[-–]Present)\)`),
	}
)

// section boundary markers: a blank line or a new capitalized header line.
var sectionBoundaryRes = []*regexp.Regexp{
	regexp.MustCompile(`\n[A-Z]`),
	regexp.MustCompile(`\n\n`),
	regexp.MustCompile(`(?i)Experience:`),
	regexp.MustCompile(`(?i)Education:`),
}

// sectionAfter returns the text between a header match and the nearest
// following boundary, or "" when the header is absent.
func sectionAfter(text string, header *regexp.Regexp, boundaries []*regexp.Regexp) string {
	loc := header.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	body := text[loc[1]:]
	end := len(body)
	for _, b := range boundaries {
		if bloc := b.FindStringIndex(body); bloc != nil && bloc[0] < end {
			end = bloc[0]
		}
	}
	return body[:end]
}

// ResumeParser turns validated resume text into a candidate profile.
type ResumeParser struct {
	logger *logx.Logger
}

// NewResumeParser creates a resume parser.
func NewResumeParser() *ResumeParser {
	return &ResumeParser{logger: logx.NewLogger("resume-parser")}
}

// Parse validates, sanitizes and extracts a profile from resume text.
func (p *ResumeParser) Parse(resumeText string) (interview.CandidateProfile, error) {
	p.logger.Info("parsing resume")

	text, err := validate.Resume(resumeText)
	if err != nil {
		p.logger.Error("resume validation failed: %v", err)
		return interview.CandidateProfile{}, err
	}

	name := "Unknown Candidate"
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			name = s
			break
		}
	}

	skills := extractSkills(text)
	if len(skills) == 0 {
		p.logger.Warn("no skills extracted from resume, using generic skills")
		skills = append(skills, genericSkills...)
	}

	years := extractExperienceYears(text)
	education := extractEducation(text)
	roles := extractRoles(text)

	profile := interview.CandidateProfile{
		Name:            name,
		Skills:          skills,
		ExperienceYears: years,
		Education:       education,
		PastRoles:       roles,
		Summary:         fmt.Sprintf("%s - %d years experience in %s", name, years, strings.Join(firstN(skills, 3), ", ")),
		RawResume:       text,
	}

	p.logger.Info("parsed profile for %s with %d skills", name, len(skills))
	return profile, nil
}

func extractSkills(text string) []string {
	var skills []string

	if body := sectionAfter(text, skillsHeaderRe, sectionBoundaryRes); body != "" {
		for _, raw := range skillSplitRe.Split(body, -1) {
			// Two-letter names like Go and C# are real skills.
			if s := strings.TrimSpace(raw); len(s) >= 2 {
				skills = append(skills, s)
			}
		}
	}

	if len(skills) == 0 {
		for _, keyword := range techKeywords {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
			if re.MatchString(text) {
				skills = append(skills, keyword)
			}
		}
	}

	return firstN(skills, maxSkills)
}

func extractExperienceYears(text string) int {
	for _, re := range experienceYearsRe {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}

	// Infer from employment date ranges.
	if years := calendarYearRe.FindAllString(text, -1); len(years) >= 2 {
		earliest, latest := 9999, 0
		for _, y := range years {
			n, _ := strconv.Atoi(y)
			if n < earliest {
				earliest = n
			}
			if n > latest {
				latest = n
			}
		}
		return latest - earliest
	}

	return 3
}

func extractEducation(text string) string {
	if body := sectionAfter(text, educationHeaderRe, []*regexp.Regexp{regexp.MustCompile(`\n[A-Z]`), regexp.MustCompile(`\n\n`)}); body != "" {
		first := strings.TrimSpace(strings.SplitN(strings.TrimSpace(body), "\n", 2)[0])
		if first != "" {
			return first
		}
	}

	for _, re := range degreeRes {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}

	return "Not specified"
}

func extractRoles(text string) []interview.PastRole {
	expHeader := experienceHeaderRe.FindStringIndex(text)
	if expHeader == nil {
		return nil
	}
	body := text[expHeader[1]:]
	if eduLoc := educationHeaderRe.FindStringIndex(body); eduLoc != nil {
		body = body[:eduLoc[0]]
	}

	var roles []interview.PastRole
	seen := make(map[string]bool)
	for _, re := range roleEntryRes {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			companyRole := strings.TrimSpace(m[1])
			duration := m[2]
			if seen[companyRole+duration] {
				continue
			}
			seen[companyRole+duration] = true

			role := companyRole
			company := "Unknown"
			if idx := strings.Index(companyRole, ","); idx != -1 {
				role = strings.TrimSpace(companyRole[:idx])
				company = strings.TrimSpace(companyRole[idx+1:])
			}

			roles = append(roles, interview.PastRole{
				Company:  company,
				Role:     role,
				Duration: duration,
			})
		}
	}

	return roles[:min(len(roles), maxPastRoles)]
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
