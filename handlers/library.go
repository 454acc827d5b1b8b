package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"neonime/models"
	"neonime/services/library"

	"github.com/gorilla/mux"
)

type libraryService interface {
	List(f library.Filter) []models.AnimeEntry
	TopRated(n int) []models.AnimeEntry
	Get(id string) (models.AnimeEntry, error)
	Add(entry models.AnimeEntry) (models.AnimeEntry, error)
	Delete(id string) error
	UpdateStatus(id string, status models.ListStatus) (models.AnimeEntry, error)
	SetRating(id string, rating float64) (models.AnimeEntry, error)
	SetEpisodesWatched(id string, watched int) (models.AnimeEntry, error)
	Stats() models.LibraryStats
}

var _ libraryService = (*library.Service)(nil)

type LibraryHandler struct {
	Service libraryService
}

func NewLibraryHandler(service libraryService) *LibraryHandler {
	return &LibraryHandler{Service: service}
}

// List returns the library, optionally filtered and sorted via query
// parameters. top=10 switches to the highest rated slice.
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if topRaw := q.Get("top"); topRaw != "" {
		n, err := strconv.Atoi(topRaw)
		if err != nil || n <= 0 {
			http.Error(w, "top must be a positive integer", http.StatusBadRequest)
			return
		}
		writeJSON(w, h.Service.TopRated(n))
		return
	}

	status := models.ListStatus(q.Get("status"))
	if status != "" && !models.ValidStatus(status) {
		http.Error(w, "invalid status filter", http.StatusBadRequest)
		return
	}

	entries := h.Service.List(library.Filter{
		Search: q.Get("search"),
		Genre:  q.Get("genre"),
		Status: status,
		Studio: q.Get("studio"),
		Year:   q.Get("year"),
		Sort:   q.Get("sort"),
	})
	writeJSON(w, entries)
}

func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, entry)
}

func (h *LibraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var entry models.AnimeEntry
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entry); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.Service.Add(entry)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrInvalidStatus) {
			status = http.StatusBadRequest
		}
		if strings.Contains(err.Error(), "title is required") {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if err := h.Service.Delete(id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])

	var payload struct {
		Status models.ListStatus `json:"status"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.Service.UpdateStatus(id, payload.Status)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, library.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, library.ErrInvalidStatus):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, entry)
}

func (h *LibraryHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])

	var payload struct {
		Rating float64 `json:"rating"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Rating < 0 || payload.Rating > 10 {
		http.Error(w, "rating must be between 0 and 10", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.SetRating(id, payload.Rating)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, entry)
}

func (h *LibraryHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])

	var payload struct {
		EpisodesWatched int `json:"episodesWatched"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.Service.SetEpisodesWatched(id, payload.EpisodesWatched)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, entry)
}

func (h *LibraryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Stats())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
