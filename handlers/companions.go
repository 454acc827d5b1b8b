package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"neonime/models"
	"neonime/services/chatlog"
	"neonime/services/companion"

	"github.com/gorilla/mux"
)

type companionService interface {
	Companions() []models.Companion
	Companion(id string) (models.Companion, error)
	ShortSummary(ctx context.Context, id, title string) (string, error)
	GenreImage(ctx context.Context, genre, style string) (string, error)
	Chat(ctx context.Context, companionID string, history []models.ChatMessage, message string) (string, error)
}

var _ companionService = (*companion.Service)(nil)

type chatlogService interface {
	EnsureSession(companionID string) (models.ChatSession, error)
	Append(sessionID, role, text string) error
	History(sessionID string) ([]models.ChatMessage, error)
}

var _ chatlogService = (*chatlog.Service)(nil)

type CompanionsHandler struct {
	Service companionService
	Log     chatlogService
}

func NewCompanionsHandler(service companionService, chatLog chatlogService) *CompanionsHandler {
	return &CompanionsHandler{Service: service, Log: chatLog}
}

func (h *CompanionsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Companions())
}

// Chat sends one message to a companion and records both sides of the
// exchange in the transcript.
func (h *CompanionsHandler) Chat(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])

	var payload struct {
		Message string `json:"message"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if _, err := h.Service.Companion(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	session, err := h.Log.EnsureSession(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	history, err := h.Log.History(session.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	reply, err := h.Service.Chat(r.Context(), id, history, payload.Message)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, companion.ErrUnknownCompanion) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	if err := h.Log.Append(session.ID, "user", payload.Message); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.Log.Append(session.ID, "model", reply); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{
		"sessionId": session.ID,
		"reply":     reply,
	})
}

// History returns a companion's transcript.
func (h *CompanionsHandler) History(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if _, err := h.Service.Companion(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	session, err := h.Log.EnsureSession(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	history, err := h.Log.History(session.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []models.ChatMessage{}
	}
	writeJSON(w, history)
}
