package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neonime/models"
	"neonime/services/companion"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type stubCompanionService struct {
	roster []models.Companion
}

func (s *stubCompanionService) Companions() []models.Companion { return s.roster }

func (s *stubCompanionService) Companion(id string) (models.Companion, error) {
	for _, c := range s.roster {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Companion{}, companion.ErrUnknownCompanion
}

func (s *stubCompanionService) ShortSummary(ctx context.Context, id, title string) (string, error) {
	return "hook for " + title, nil
}

func (s *stubCompanionService) GenreImage(ctx context.Context, genre, style string) (string, error) {
	return "data:image/png;base64,aGk=", nil
}

func (s *stubCompanionService) Chat(ctx context.Context, companionID string, history []models.ChatMessage, message string) (string, error) {
	return "reply to " + message, nil
}

type stubChatLog struct {
	sessions int
	appended []models.ChatMessage
}

func (s *stubChatLog) EnsureSession(companionID string) (models.ChatSession, error) {
	s.sessions++
	return models.ChatSession{ID: "session-1", CompanionID: companionID}, nil
}

func (s *stubChatLog) Append(sessionID, role, text string) error {
	s.appended = append(s.appended, models.ChatMessage{Role: role, Text: text})
	return nil
}

func (s *stubChatLog) History(sessionID string) ([]models.ChatMessage, error) {
	return append([]models.ChatMessage(nil), s.appended...), nil
}

func newCompanionsHandler() (*CompanionsHandler, *stubChatLog) {
	chatLog := &stubChatLog{}
	service := &stubCompanionService{roster: []models.Companion{{ID: "luffy", Name: "Monkey D. Luffy"}}}
	return NewCompanionsHandler(service, chatLog), chatLog
}

func TestCompanionChat(t *testing.T) {
	h, chatLog := newCompanionsHandler()

	body := strings.NewReader(`{"message":"hello"}`)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/api/companions/luffy/chat", body), map[string]string{"id": "luffy"})
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "session-1", resp["sessionId"])
	require.Equal(t, "reply to hello", resp["reply"])

	// Both sides of the exchange land in the transcript.
	require.Len(t, chatLog.appended, 2)
	require.Equal(t, "user", chatLog.appended[0].Role)
	require.Equal(t, "model", chatLog.appended[1].Role)
}

func TestCompanionChatUnknownCompanionCreatesNoSession(t *testing.T) {
	h, chatLog := newCompanionsHandler()

	body := strings.NewReader(`{"message":"hello"}`)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/api/companions/ghost/chat", body), map[string]string{"id": "ghost"})
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Zero(t, chatLog.sessions)
	require.Empty(t, chatLog.appended)
}

func TestCompanionHistoryUnknownCompanion(t *testing.T) {
	h, chatLog := newCompanionsHandler()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/companions/ghost/history", nil), map[string]string{"id": "ghost"})
	rec := httptest.NewRecorder()
	h.History(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Zero(t, chatLog.sessions)
}
