// Package persistence provides SQLite-backed storage for interview sessions.
// Sessions are stored as JSON documents keyed by session ID, with the few
// columns needed for listing kept relational.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver

	"interviewsim/pkg/interview"
	"interviewsim/pkg/logx"
)

// ErrSessionNotFound is returned when the requested session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SessionSummary is the listing projection of a stored session.
type SessionSummary struct {
	ID            string
	CandidateName string
	JobTitle      string
	Status        interview.Status
	StartTime     time.Time
	UpdatedAt     time.Time
}

// Store persists interview sessions.
type Store interface {
	Create(ctx context.Context, session *interview.Session) error
	Get(ctx context.Context, id string) (*interview.Session, error)
	Update(ctx context.Context, session *interview.Session) error
	List(ctx context.Context) ([]SessionSummary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	candidate_name TEXT NOT NULL,
	job_title TEXT NOT NULL,
	status TEXT NOT NULL,
	start_time TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	document TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
`

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *logx.Logger
}

// Open creates (if needed) and opens the session database. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// SQLite supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger := logx.NewLogger("persistence")
	logger.Info("session database ready: %s", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Create inserts a new session.
func (s *SQLiteStore) Create(ctx context.Context, session *interview.Session) error {
	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, candidate_name, job_title, status, start_time, updated_at, document)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.CandidateProfile.Name,
		session.JobRequirements.Title,
		string(session.Status),
		session.StartTime,
		time.Now().UTC(),
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", session.ID, err)
	}
	return nil
}

// Get loads a session by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*interview.Session, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM sessions WHERE id = ?`, id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var session interview.Session
	if err := json.Unmarshal([]byte(doc), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &session, nil
}

// Update replaces the stored document for an existing session.
func (s *SQLiteStore) Update(ctx context.Context, session *interview.Session) error {
	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET status = ?, updated_at = ?, document = ? WHERE id = ?`,
		string(session.Status),
		time.Now().UTC(),
		string(doc),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of session %s: %w", session.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", session.ID, ErrSessionNotFound)
	}
	return nil
}

// List returns summaries of all sessions, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate_name, job_title, status, start_time, updated_at
		FROM sessions ORDER BY start_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var status string
		if err := rows.Scan(&sum.ID, &sum.CandidateName, &sum.JobTitle, &status, &sum.StartTime, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sum.Status = interview.Status(status)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return summaries, nil
}

// Delete removes a session.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of session %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
