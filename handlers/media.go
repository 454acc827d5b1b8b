package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"neonime/services/library"
	"neonime/services/ratelimit"

	"github.com/gorilla/mux"
)

// MediaHandler serves the generated extras: summary hooks and genre art.
type MediaHandler struct {
	Library   libraryService
	Companion companionService
	Gate      *ratelimit.Gate
}

func NewMediaHandler(lib libraryService, comp companionService, gate *ratelimit.Gate) *MediaHandler {
	return &MediaHandler{Library: lib, Companion: comp, Gate: gate}
}

// Summary returns a one line AI hook for a library entry.
func (h *MediaHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])

	entry, err := h.Library.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	summary, err := h.Companion.ShortSummary(r.Context(), entry.ID, entry.Title)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, map[string]string{"id": entry.ID, "summary": summary})
}

// GenreImage returns generated artwork for a genre as a data URL.
func (h *MediaHandler) GenreImage(w http.ResponseWriter, r *http.Request) {
	genre := strings.TrimSpace(r.URL.Query().Get("genre"))
	if genre == "" {
		http.Error(w, "genre is required", http.StatusBadRequest)
		return
	}
	style := r.URL.Query().Get("style")

	url, err := h.Companion.GenreImage(r.Context(), genre, style)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, map[string]string{"genre": genre, "image": url})
}

func (h *MediaHandler) writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, ratelimit.ErrCoolingDown) || errors.Is(err, ratelimit.ErrQuota) {
		seconds := int(math.Ceil(h.Gate.Remaining().Seconds()))
		if seconds > 0 {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		}
		http.Error(w, err.Error(), http.StatusTooManyRequests)
		return
	}
	http.Error(w, err.Error(), http.StatusBadGateway)
}
