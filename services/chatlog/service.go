package chatlog

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"neonime/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

var ErrSessionNotFound = errors.New("chat session not found")

// Service persists companion chat transcripts in SQLite so conversations
// survive restarts.
type Service struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies pending
// migrations.
func New(path string) (*Service, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open chat database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Service{db: db}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

// EnsureSession returns the most recent session for a companion, creating
// one on first contact.
func (s *Service) EnsureSession(companionID string) (models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.QueryRow(
		`SELECT id, companion_id, created_at FROM chat_sessions
		 WHERE companion_id = ? ORDER BY created_at DESC LIMIT 1`,
		companionID,
	).Scan(&session.ID, &session.CompanionID, &session.CreatedAt)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.ChatSession{}, fmt.Errorf("failed to load session: %w", err)
	}

	session = models.ChatSession{
		ID:          uuid.NewString(),
		CompanionID: companionID,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO chat_sessions (id, companion_id, created_at) VALUES (?, ?, ?)`,
		session.ID, session.CompanionID, session.CreatedAt,
	)
	if err != nil {
		return models.ChatSession{}, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Append records one message in a session.
func (s *Service) Append(sessionID, role, text string) error {
	res, err := s.db.Exec(
		`INSERT INTO chat_messages (session_id, role, text, created_at)
		 SELECT id, ?, ?, ? FROM chat_sessions WHERE id = ?`,
		role, text, time.Now().UTC(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// History returns a session's messages in insertion order.
func (s *Service) History(sessionID string) ([]models.ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT role, text, created_at FROM chat_messages
		 WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Sessions lists all sessions for a companion, newest first.
func (s *Service) Sessions(companionID string) ([]models.ChatSession, error) {
	rows, err := s.db.Query(
		`SELECT id, companion_id, created_at FROM chat_sessions
		 WHERE companion_id = ? ORDER BY created_at DESC`,
		companionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []models.ChatSession
	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.ID, &s.CompanionID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Reset drops all transcripts.
func (s *Service) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM chat_messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM chat_sessions`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}
