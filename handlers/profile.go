package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"neonime/models"
	"neonime/services/library"
)

type profileService interface {
	Profile() models.Profile
	UpdateProfile(username, avatar string) (models.Profile, error)
	SetTheme(theme string) (models.Profile, error)
	UserStats() models.UserStats
}

var _ profileService = (*library.Service)(nil)

type ProfileHandler struct {
	Service profileService
}

func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{Service: service}
}

// Get returns the profile plus derived dashboard stats.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"profile":   h.Service.Profile(),
		"userStats": h.Service.UserStats(),
	})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.Service.UpdateProfile(payload.Username, payload.Avatar)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, profile)
}

func (h *ProfileHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Theme string `json:"theme"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.Service.SetTheme(payload.Theme)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, library.ErrInvalidTheme) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, profile)
}
