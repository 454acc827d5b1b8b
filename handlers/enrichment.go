package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"neonime/models"
	"neonime/services/enrichment"
	"neonime/services/library"
	"neonime/services/ratelimit"

	"github.com/gorilla/mux"
)

type EnrichmentHandler struct {
	Coordinator *enrichment.Coordinator
	Gate        *ratelimit.Gate
}

func NewEnrichmentHandler(coordinator *enrichment.Coordinator, gate *ratelimit.Gate) *EnrichmentHandler {
	return &EnrichmentHandler{Coordinator: coordinator, Gate: gate}
}

// EnrichOne fetches metadata for a single entry right now.
func (h *EnrichmentHandler) EnrichOne(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	entry, err := h.Coordinator.EnrichNow(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, entry)
}

// StartSync kicks off a bulk sync in the background.
func (h *EnrichmentHandler) StartSync(w http.ResponseWriter, r *http.Request) {
	if err := h.Coordinator.BulkSyncAsync(); err != nil {
		if errors.Is(err, enrichment.ErrSyncRunning) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]bool{"started": true})
}

// Progress reports the state of the current or last bulk sync.
func (h *EnrichmentHandler) Progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Coordinator.Progress())
}

// Pending lists the entries still waiting on metadata.
func (h *EnrichmentHandler) Pending(w http.ResponseWriter, r *http.Request) {
	pending := h.Coordinator.Pending()
	if pending == nil {
		pending = []models.AnimeEntry{}
	}
	writeJSON(w, pending)
}

func (h *EnrichmentHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ratelimit.ErrCoolingDown), errors.Is(err, ratelimit.ErrQuota):
		seconds := int(math.Ceil(h.Gate.Remaining().Seconds()))
		if seconds > 0 {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		}
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
