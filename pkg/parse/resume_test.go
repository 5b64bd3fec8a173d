package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
Senior Software Engineer

Skills: Go, Kubernetes, PostgreSQL, AWS, Terraform

Experience:
- Senior Engineer, Acme Corp (2019-2023)
- Backend Engineer, Widgets Inc (2016-2019)

Education:
B.S. Computer Science, State University

8 years of experience building distributed systems.`

func TestResumeParserFullResume(t *testing.T) {
	profile, err := NewResumeParser().Parse(sampleResume)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Contains(t, profile.Skills, "Go")
	assert.Contains(t, profile.Skills, "Kubernetes")
	assert.Equal(t, 8, profile.ExperienceYears)
	assert.Contains(t, profile.Education, "B.S. Computer Science")
	require.NotEmpty(t, profile.PastRoles)
	assert.Equal(t, "Senior Engineer", profile.PastRoles[0].Role)
	assert.Equal(t, "Acme Corp", profile.PastRoles[0].Company)
	assert.Equal(t, "2019-2023", profile.PastRoles[0].Duration)
	assert.Contains(t, profile.Summary, "Jane Doe")
}

func TestResumeParserKeepsTwoLetterSkills(t *testing.T) {
	resume := `Sam Lee
Staff Engineer

Skills: Go, C#, PostgreSQL

Ten years building backend services for payments platforms.`

	profile, err := NewResumeParser().Parse(resume)
	require.NoError(t, err)
	assert.Contains(t, profile.Skills, "Go")
	assert.Contains(t, profile.Skills, "C#")
	assert.Contains(t, profile.Skills, "PostgreSQL")
}

func TestResumeParserInvalidInput(t *testing.T) {
	_, err := NewResumeParser().Parse("")
	assert.Error(t, err)

	_, err = NewResumeParser().Parse("too short")
	assert.Error(t, err)
}

func TestResumeParserKeywordFallback(t *testing.T) {
	resume := `John Smith
I have spent years writing Python and JavaScript services, deploying with Docker
on AWS, and maintaining PostgreSQL databases for production workloads.`

	profile, err := NewResumeParser().Parse(resume)
	require.NoError(t, err)
	assert.Contains(t, profile.Skills, "Python")
	assert.Contains(t, profile.Skills, "Docker")
	assert.Contains(t, profile.Skills, "AWS")
}

func TestResumeParserGenericSkillsFallback(t *testing.T) {
	resume := `Alex Johnson
A dedicated professional who enjoys collaborating with cross functional partners
to deliver meaningful outcomes on every engagement.`

	profile, err := NewResumeParser().Parse(resume)
	require.NoError(t, err)
	assert.Equal(t, []string{"Problem Solving", "Communication", "Teamwork"}, profile.Skills)
}

func TestResumeParserYearsFromDateRanges(t *testing.T) {
	resume := `Sam Lee
Skills: Go, Redis, Linux

Experience:
- Engineer, First Co (2015-2018)
- Engineer, Second Co (2018-2022)`

	profile, err := NewResumeParser().Parse(resume)
	require.NoError(t, err)
	assert.Equal(t, 7, profile.ExperienceYears)
}

func TestResumeParserDefaultYears(t *testing.T) {
	resume := `Pat Kim
Skills: Go, Docker, PostgreSQL, Kubernetes, Redis and plenty of production operations work.`

	profile, err := NewResumeParser().Parse(resume)
	require.NoError(t, err)
	assert.Equal(t, 3, profile.ExperienceYears)
}

func TestResumeParserSkillLimit(t *testing.T) {
	var skills []string
	for i := 0; i < 30; i++ {
		skills = append(skills, "Skill"+strings.Repeat("x", i%5)+string(rune('A'+i%26)))
	}
	resume := "Taylor Ray\nSkills: " + strings.Join(skills, ", ") + "\n\nGeneral engineering background."

	profile, err := NewResumeParser().Parse(resume)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(profile.Skills), 15)
}
