// Package service exposes the interview engine behind a session-ID-keyed
// API, persisting session state after every step so interviews survive
// process restarts.
package service

import (
	"context"
	"fmt"

	"interviewsim/pkg/agents"
	"interviewsim/pkg/interview"
	"interviewsim/pkg/logx"
	"interviewsim/pkg/orchestrator"
	"interviewsim/pkg/persistence"
)

// StartResult is the outcome of starting a new interview.
type StartResult struct {
	Session       *interview.Session
	FirstQuestion *agents.Question
}

// InterviewService couples the orchestrator with the session store.
type InterviewService struct {
	orch   *orchestrator.Orchestrator
	store  persistence.Store
	logger *logx.Logger
}

// New creates the service.
func New(orch *orchestrator.Orchestrator, store persistence.Store) *InterviewService {
	return &InterviewService{
		orch:   orch,
		store:  store,
		logger: logx.NewLogger("interview-service"),
	}
}

// Start creates and persists a new interview session.
func (s *InterviewService) Start(ctx context.Context, resumeText, jobText string) (*StartResult, error) {
	session, question, err := s.orch.Start(ctx, resumeText, jobText)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("persisting new session: %w", err)
	}
	s.logger.Info("started session %s", session.ID)
	return &StartResult{Session: session, FirstQuestion: question}, nil
}

// SubmitAnswer processes one answer for a stored session and persists the
// updated state.
func (s *InterviewService) SubmitAnswer(ctx context.Context, sessionID, answer string) (*orchestrator.TurnResult, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.orch.SubmitAnswer(ctx, session, answer)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("persisting session %s: %w", sessionID, err)
	}
	return result, nil
}

// GetReport finalizes the session if needed and returns the final report.
func (s *InterviewService) GetReport(ctx context.Context, sessionID string) (*interview.FinalReport, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	report, err := s.orch.Finalize(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("persisting session %s: %w", sessionID, err)
	}
	return report, nil
}

// GetSession loads a stored session.
func (s *InterviewService) GetSession(ctx context.Context, sessionID string) (*interview.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// ListSessions returns summaries of all stored sessions.
func (s *InterviewService) ListSessions(ctx context.Context) ([]persistence.SessionSummary, error) {
	return s.store.List(ctx)
}
