package agents

import (
	"context"
	"fmt"
	"strings"

	"interviewsim/pkg/interview"
	"interviewsim/pkg/llm"
	"interviewsim/pkg/logx"
)

// Transition thresholds over the average of the last two scores.
const (
	deepenThreshold     = 3.5
	strugglingThreshold = 2.0
	trendWindow         = 2
)

const topicManagerSystemMessage = "You are an expert interviewer managing interview flow."

// TopicManager decides when to move to a new topic, when to drill deeper
// into the current one, and which topic comes next. The stay-or-go decision
// is fully deterministic; the model is consulted only to pick among the
// remaining topics, and even that has a priority-ordered fallback.
type TopicManager struct {
	llm    *llm.StructuredClient
	logger *logx.Logger
}

// NewTopicManager creates the flow-control agent.
func NewTopicManager(client *llm.StructuredClient) *TopicManager {
	return &TopicManager{
		llm:    client,
		logger: logx.NewLogger("topic-manager"),
	}
}

// Name implements Agent.
func (a *TopicManager) Name() string { return "topic-manager" }

// Execute produces the transition decision for the current topic.
func (a *TopicManager) Execute(ctx context.Context, actx *Context) (*Result, error) {
	session := actx.Session
	topic := session.CurrentTopic()
	if topic == nil {
		return &Result{Transition: &Transition{
			ShouldTransition: true,
			Terminal:         true,
			Reasoning:        "No current topic",
		}}, nil
	}

	scores := recentScores(session, topic.Name)
	a.logger.Info("evaluating transition for %s: questions=%d, recent_avg=%.2f",
		topic.Name, topic.QuestionsAsked, average(scores))

	decision := a.decide(topic, scores, actx.MinQuestionsPerTopic, actx.MaxQuestionsPerTopic)
	if !decision.ShouldTransition {
		return &Result{Transition: decision}, nil
	}

	next := a.selectNextTopic(ctx, actx, topic)
	next.ShouldTransition = true
	if decision.Reasoning != "" && next.Reasoning != "" {
		next.Reasoning = decision.Reasoning + "; " + next.Reasoning
	}
	return &Result{Transition: next}, nil
}

// decide applies the deterministic stay-or-go rules.
func (a *TopicManager) decide(topic *interview.Topic, scores []float64, minQuestions, maxQuestions int) *Transition {
	if topic.QuestionsAsked < minQuestions {
		return &Transition{
			NextDepth: topic.Depth,
			Reasoning: fmt.Sprintf("Need at least %d questions per topic", minQuestions),
		}
	}

	if topic.QuestionsAsked >= maxQuestions {
		return &Transition{
			ShouldTransition: true,
			Reasoning:        fmt.Sprintf("Maximum %d questions per topic reached", maxQuestions),
		}
	}

	if len(scores) > 0 {
		avg := average(scores)
		if avg >= deepenThreshold {
			if topic.Depth == interview.DepthDeep {
				return &Transition{
					ShouldTransition: true,
					Reasoning:        fmt.Sprintf("Strong performance (avg %.1f/5.0) at full depth, moving to next topic", avg),
				}
			}
			return &Transition{
				NextDepth: topic.Depth.Deepen(),
				Reasoning: fmt.Sprintf("Strong performance (avg %.1f/5.0), going deeper", avg),
			}
		}
		if avg <= strugglingThreshold {
			return &Transition{
				ShouldTransition: true,
				Reasoning:        fmt.Sprintf("Candidate struggling (avg %.1f/5.0), moving to next topic", avg),
			}
		}
	}

	return &Transition{
		NextDepth: topic.Depth,
		Reasoning: "Continuing current topic for deeper exploration",
	}
}

// selectNextTopic picks the next uncovered topic. With more than one
// candidate the model is asked, but its answer must name a real uncovered
// topic or the priority fallback wins.
func (a *TopicManager) selectNextTopic(ctx context.Context, actx *Context, current *interview.Topic) *Transition {
	var uncovered []interview.Topic
	for _, t := range actx.Session.Topics {
		if !t.Covered && t.Name != current.Name {
			uncovered = append(uncovered, t)
		}
	}

	if len(uncovered) == 0 {
		return &Transition{Terminal: true, Reasoning: "All topics covered"}
	}
	if len(uncovered) == 1 {
		return &Transition{
			NextTopic: uncovered[0].Name,
			NextDepth: interview.DepthSurface,
			Reasoning: "Last remaining topic",
		}
	}

	var choice struct {
		NextTopic string `json:"next_topic"`
		Reasoning string `json:"reasoning"`
	}
	err := a.llm.GenerateStructured(llm.WithCaller(ctx, a.Name()), llm.StructuredRequest{
		Prompt:        a.buildSelectionPrompt(actx, current, uncovered),
		SystemMessage: topicManagerSystemMessage,
		SchemaHint: `- "next_topic": the name of the next topic (must match one from the list)
- "reasoning": brief explanation (1 sentence)`,
		Temperature: llm.TemperatureScoring,
	}, &choice)
	if err == nil {
		for _, t := range uncovered {
			if strings.EqualFold(t.Name, strings.TrimSpace(choice.NextTopic)) {
				return &Transition{
					NextTopic: t.Name,
					NextDepth: interview.DepthSurface,
					Reasoning: choice.Reasoning,
				}
			}
		}
		a.logger.Warn("model selected unknown topic %q, using priority fallback", choice.NextTopic)
	} else {
		a.logger.Error("next-topic selection failed: %v", err)
	}

	best := uncovered[0]
	for _, t := range uncovered[1:] {
		if t.Priority > best.Priority {
			best = t
		}
	}
	return &Transition{
		NextTopic: best.Name,
		NextDepth: interview.DepthSurface,
		Reasoning: "Selected highest priority remaining topic",
	}
}

func (a *TopicManager) buildSelectionPrompt(actx *Context, current *interview.Topic, uncovered []interview.Topic) string {
	var list strings.Builder
	for _, t := range uncovered {
		fmt.Fprintf(&list, "- %s (priority: %d)\n", t.Name, t.Priority)
	}

	session := actx.Session
	return fmt.Sprintf(`You are managing the flow of a technical interview.

Current Topic: %s (now completed)
Candidate Experience: %d years
Target Role: %s

Remaining Topics:
%s
Select the best next topic to explore that:
1. Flows naturally from %s
2. Is critical for the %s role
3. Aligns with the candidate's background
4. Maintains interview engagement`,
		current.Name, session.CandidateProfile.ExperienceYears, session.JobRequirements.Title,
		list.String(), current.Name, session.JobRequirements.Title,
	)
}

// recentScores returns the overall scores of the last evaluations within one
// topic, newest included, bounded by the trend window.
func recentScores(session *interview.Session, topicName string) []float64 {
	evals := session.TopicEvaluations(topicName)
	if len(evals) > trendWindow {
		evals = evals[len(evals)-trendWindow:]
	}
	scores := make([]float64, 0, len(evals))
	for _, e := range evals {
		scores = append(scores, e.OverallScore)
	}
	return scores
}

func average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
