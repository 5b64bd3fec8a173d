package parse

import (
	"sort"
	"strings"

	"interviewsim/pkg/interview"
	"interviewsim/pkg/logx"
)

// Topic priorities.
const (
	priorityMatch   = 5
	priorityGeneral = 3
	// DefaultMaxTopics caps the interview plan length.
	DefaultMaxTopics = 5
)

// systemDesignTopic is added for senior and backend roles.
const systemDesignTopic = "System Design"

// TopicPlanner derives the prioritized topic plan from a candidate profile
// and job requirements.
type TopicPlanner struct {
	logger *logx.Logger
}

// NewTopicPlanner creates a topic planner.
func NewTopicPlanner() *TopicPlanner {
	return &TopicPlanner{logger: logx.NewLogger("topic-planner")}
}

// Plan builds up to maxTopics topics, highest priority first. Skills that
// overlap the job's requirements rank highest, the candidate's leading
// skills fill in behind them, and senior or backend roles get a System
// Design topic.
func (p *TopicPlanner) Plan(profile interview.CandidateProfile, job interview.JobRequirements, maxTopics int) []interview.Topic {
	if maxTopics <= 0 {
		maxTopics = DefaultMaxTopics
	}
	p.logger.Info("generating interview topics")

	priorities := make(map[string]int)
	var order []string

	add := func(name string, priority int) {
		if _, exists := priorities[name]; !exists {
			order = append(order, name)
			priorities[name] = priority
		}
	}

	for _, skill := range profile.Skills {
		for _, required := range job.RequiredSkills {
			if skillsOverlap(skill, required) {
				add(skill, priorityMatch)
				break
			}
		}
	}

	for _, skill := range firstN(profile.Skills, 5) {
		add(skill, priorityGeneral)
	}

	title := strings.ToLower(job.Title)
	if strings.Contains(title, "backend") || strings.Contains(title, "senior") {
		add(systemDesignTopic, priorityMatch)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return priorities[order[i]] > priorities[order[j]]
	})

	var topics []interview.Topic
	for _, name := range firstN(order, maxTopics) {
		topics = append(topics, interview.Topic{
			Name:     name,
			Priority: priorities[name],
			Depth:    interview.DepthSurface,
		})
	}

	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	p.logger.Info("generated %d topics: %s", len(topics), strings.Join(names, ", "))
	return topics
}

// skillsOverlap reports whether either skill name contains the other,
// case-insensitively.
func skillsOverlap(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
