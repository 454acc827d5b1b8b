package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"neonime/models"
	"neonime/services/library"
)

// maxSnapshotBytes caps import payloads.
const maxSnapshotBytes = 16 << 20

type snapshotService interface {
	Export() models.Snapshot
	Import(data []byte) error
	Reset() error
}

var _ snapshotService = (*library.Service)(nil)

type chatResetService interface {
	Reset() error
}

type SnapshotHandler struct {
	Service snapshotService
	ChatLog chatResetService
}

func NewSnapshotHandler(service snapshotService, chatLog chatResetService) *SnapshotHandler {
	return &SnapshotHandler{Service: service, ChatLog: chatLog}
}

// Export downloads the full library state as a JSON attachment.
func (h *SnapshotHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.Export()
	filename := fmt.Sprintf("neonime-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	json.NewEncoder(w).Encode(snap)
}

// Import restores a previously exported snapshot.
func (h *SnapshotHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Import(data); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrInvalidSnapshot) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, map[string]bool{"imported": true})
}

// Reset wipes the library, the profile and all chat transcripts.
func (h *SnapshotHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Reset(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if h.ChatLog != nil {
		if err := h.ChatLog.Reset(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, map[string]bool{"reset": true})
}
