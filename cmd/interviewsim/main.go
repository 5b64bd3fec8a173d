// Command interviewsim runs a simulated technical interview in the
// terminal. It reads a resume and a job description, conducts a
// question/answer loop against the configured model provider, and prints
// the final report.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"interviewsim/pkg/config"
	"interviewsim/pkg/interview"
	"interviewsim/pkg/llm"
	"interviewsim/pkg/llm/factory"
	"interviewsim/pkg/orchestrator"
	"interviewsim/pkg/persistence"
	"interviewsim/pkg/service"
)

// Version information - set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	var (
		resumePath  = flag.String("resume", "", "Path to the candidate resume (text file)")
		jobPath     = flag.String("job", "", "Path to the job description (text file)")
		configPath  = flag.String("config", "", "Path to YAML config file (optional)")
		listMode    = flag.Bool("list", false, "List stored interview sessions and exit")
		reportID    = flag.String("report", "", "Print the final report for a stored session and exit")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("interviewsim %s (%s)\n", version, commit)
		os.Exit(0)
	}

	os.Exit(run(*resumePath, *jobPath, *configPath, *listMode, *reportID))
}

// run contains the main application logic and returns an exit code so
// deferred cleanup executes before the process exits.
func run(resumePath, jobPath, configPath string, listMode bool, reportID string) int {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		return 1
	}
	store, err := persistence.Open(filepath.Join(cfg.DataDir, "interviews.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session store: %v\n", err)
		return 1
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close session store: %v\n", closeErr)
		}
	}()

	ctx := context.Background()

	if listMode {
		return listSessions(ctx, store)
	}

	client, err := factory.New(cfg, nil).CreateClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Provider setup failed: %v\n", err)
		return 1
	}
	structured := llm.NewStructuredClient(client, cfg.LLM.Timeout())
	svc := service.New(orchestrator.New(structured, cfg.Interview), store)

	if reportID != "" {
		return printStoredReport(ctx, svc, reportID)
	}

	if resumePath == "" || jobPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: interviewsim -resume <file> -job <file>")
		flag.PrintDefaults()
		return 2
	}

	resumeText, err := os.ReadFile(resumePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read resume: %v\n", err)
		return 1
	}
	jobText, err := os.ReadFile(jobPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read job description: %v\n", err)
		return 1
	}

	if err := runInterview(ctx, svc, string(resumeText), string(jobText)); err != nil {
		fmt.Fprintf(os.Stderr, "Interview failed: %v\n", err)
		return 1
	}
	return 0
}

func runInterview(ctx context.Context, svc *service.InterviewService, resumeText, jobText string) error {
	fmt.Println("⏳ Preparing interview...")

	started, err := svc.Start(ctx, resumeText, jobText)
	if err != nil {
		return err
	}
	session := started.Session

	fmt.Println()
	fmt.Println("=== Interview Context ===")
	fmt.Printf("Candidate:  %s\n", session.CandidateProfile.Name)
	fmt.Printf("Position:   %s at %s\n", session.JobRequirements.Title, session.JobRequirements.Company)
	fmt.Printf("Experience: %d years\n", session.CandidateProfile.ExperienceYears)
	fmt.Printf("Topics:     %d to cover\n", len(session.Topics))
	fmt.Printf("Session:    %s\n", session.ID)
	fmt.Println()
	fmt.Println("Answer each question, then press Enter twice to submit.")
	fmt.Println("Type 'exit' to end early or 'status' to see progress.")
	fmt.Println()

	reader := bufio.NewScanner(os.Stdin)
	reader.Buffer(make([]byte, 64*1024), 1024*1024)
	question := started.FirstQuestion.Text

	for {
		printTopicHeader(session)
		fmt.Printf("Question #%d:\n%s\n\n", session.QuestionsAsked, question)

		answer, command := readAnswer(reader)
		switch command {
		case "exit":
			fmt.Println("\nEnding interview early.")
			return printFinalReport(ctx, svc, session.ID)
		case "status":
			printStatus(session)
			continue
		}

		fmt.Println("\n⏳ Evaluating your answer...")
		result, err := svc.SubmitAnswer(ctx, session.ID, answer)
		if err != nil {
			return err
		}
		// Re-read so local progress reflects the committed state.
		session, err = svc.GetSession(ctx, session.ID)
		if err != nil {
			return err
		}

		printEvaluation(result.Evaluation)
		if result.Transitioned && !result.Complete {
			fmt.Printf("🔄 Moving to next topic: %s\n", session.CurrentTopicName)
			fmt.Printf("   %s\n\n", result.TransitionReasoning)
		}
		if result.Complete {
			return printFinalReport(ctx, svc, session.ID)
		}
		question = result.NextQuestion.Text
	}
}

// readAnswer collects a multi-line answer terminated by two consecutive
// blank lines. It returns a command name instead when the candidate types
// a bare control word.
func readAnswer(reader *bufio.Scanner) (answer, command string) {
	var lines []string
	blanks := 0
	for reader.Scan() {
		line := reader.Text()
		trimmed := strings.TrimSpace(line)
		if len(lines) == 0 {
			switch strings.ToLower(trimmed) {
			case "exit":
				return "", "exit"
			case "status":
				return "", "status"
			}
		}
		if trimmed == "" {
			blanks++
			if blanks >= 2 || (blanks >= 1 && len(lines) > 0) {
				break
			}
			continue
		}
		blanks = 0
		lines = append(lines, line)
	}
	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return "(No response provided)", ""
	}
	return text, ""
}

func printTopicHeader(session *interview.Session) {
	topic := session.CurrentTopic()
	if topic == nil {
		return
	}
	fmt.Printf("--- Topic %d/%d: %s (%s) ---\n",
		session.CurrentTopicIndex+1, len(session.Topics), topic.Name, topic.Depth)
}

func printStatus(session *interview.Session) {
	covered := 0
	for _, t := range session.Topics {
		if t.Covered {
			covered++
		}
	}
	fmt.Println()
	fmt.Println("=== Interview Status ===")
	fmt.Printf("Questions asked: %d\n", session.QuestionsAsked)
	fmt.Printf("Topics covered:  %d/%d\n", covered, len(session.Topics))
	if avg := session.AverageScore(); avg > 0 {
		fmt.Printf("Average score:   %.2f/5.0\n", avg)
	}
	fmt.Printf("Elapsed:         %.1f minutes\n", session.Duration().Minutes())
	fmt.Println()
}

func printEvaluation(eval *interview.Evaluation) {
	if eval == nil {
		return
	}
	fmt.Println()
	fmt.Printf("Score: %s (%.1f/5.0)\n", stars(eval.OverallScore), eval.OverallScore)
	fmt.Printf("  Technical Accuracy: %.1f  Depth: %.1f  Clarity: %.1f  Relevance: %.1f\n",
		eval.TechnicalAccuracy, eval.Depth, eval.Clarity, eval.Relevance)
	for _, s := range eval.Strengths {
		fmt.Printf("  ✓ %s\n", s)
	}
	for _, g := range eval.Gaps {
		fmt.Printf("  ⚠ %s\n", g)
	}
	if eval.Feedback != "" {
		fmt.Printf("  💬 %s\n", eval.Feedback)
	}
	fmt.Println()
}

func printFinalReport(ctx context.Context, svc *service.InterviewService, sessionID string) error {
	fmt.Println("\n⏳ Generating final report...")
	report, err := svc.GetReport(ctx, sessionID)
	if err != nil {
		return err
	}
	renderReport(report)
	return nil
}

func printStoredReport(ctx context.Context, svc *service.InterviewService, sessionID string) int {
	report, err := svc.GetReport(ctx, sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load report: %v\n", err)
		return 1
	}
	renderReport(report)
	return 0
}

func renderReport(report *interview.FinalReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("FINAL INTERVIEW REPORT")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("Candidate:      %s\n", report.CandidateName)
	fmt.Printf("Position:       %s\n", report.JobTitle)
	fmt.Printf("Date:           %s\n", report.InterviewDate.Format("2006-01-02 15:04"))
	fmt.Printf("Duration:       %.1f minutes\n", report.DurationMinutes)
	fmt.Printf("Questions:      %d\n", report.TotalQuestions)
	fmt.Println()
	fmt.Printf("Overall Score:  %s %.2f/5.0\n", stars(report.OverallScore), report.OverallScore)
	fmt.Printf("Recommendation: %s\n", report.Recommendation)

	if len(report.TopicSummaries) > 0 {
		fmt.Println("\nTopics Covered:")
		for _, s := range report.TopicSummaries {
			fmt.Printf("  %-30s %d questions, avg %.1f/5.0\n", s.Topic, s.QuestionsCount, s.AverageScore)
		}
	}
	if len(report.OverallStrengths) > 0 {
		fmt.Println("\nKey Strengths:")
		for _, s := range report.OverallStrengths {
			fmt.Printf("  ✓ %s\n", s)
		}
	}
	if len(report.AreasForImprovement) > 0 {
		fmt.Println("\nAreas for Improvement:")
		for _, a := range report.AreasForImprovement {
			fmt.Printf("  ⚠ %s\n", a)
		}
	}
	if report.AdditionalNotes != "" {
		fmt.Printf("\nSummary:\n%s\n", report.AdditionalNotes)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func listSessions(ctx context.Context, store persistence.Store) int {
	summaries, err := store.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list sessions: %v\n", err)
		return 1
	}
	if len(summaries) == 0 {
		fmt.Println("No stored sessions.")
		return 0
	}
	for _, s := range summaries {
		fmt.Printf("%s  %-10s %-24s %-30s %s\n",
			s.ID, s.Status, s.CandidateName, s.JobTitle, s.StartTime.Format("2006-01-02 15:04"))
	}
	return 0
}

func stars(score float64) string {
	full := int(score)
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}
