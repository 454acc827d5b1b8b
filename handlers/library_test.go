package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neonime/models"
	"neonime/services/library"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newLibraryService(t *testing.T) *library.Service {
	t.Helper()
	s, err := library.New(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	return s
}

func TestLibraryList(t *testing.T) {
	h := NewLibraryHandler(newLibraryService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/library?search=naruto", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.AnimeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
}

func TestLibraryListTop(t *testing.T) {
	h := NewLibraryHandler(newLibraryService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/library?top=10", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.AnimeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 10)
	for i := 1; i < len(entries); i++ {
		require.GreaterOrEqual(t, entries[i-1].Rating, entries[i].Rating)
	}
}

func TestLibraryListRejectsBadStatus(t *testing.T) {
	h := NewLibraryHandler(newLibraryService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/library?status=Dropped", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLibraryGet(t *testing.T) {
	h := NewLibraryHandler(newLibraryService(t))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/library/a100", nil), map[string]string{"id": "a100"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entry models.AnimeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	require.Equal(t, "One Piece", entry.Title)
}

func TestLibraryGetNotFound(t *testing.T) {
	h := NewLibraryHandler(newLibraryService(t))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/library/zzz", nil), map[string]string{"id": "zzz"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLibraryUpdateStatus(t *testing.T) {
	h := NewLibraryHandler(newLibraryService(t))

	body := strings.NewReader(`{"status":"Watching"}`)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/api/library/a100/status", body), map[string]string{"id": "a100"})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entry models.AnimeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	require.Equal(t, models.StatusWatching, entry.Status)
}

func TestLibraryUpdateStatusInvalid(t *testing.T) {
	h := NewLibraryHandler(newLibraryService(t))

	body := strings.NewReader(`{"status":"Dropped"}`)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/api/library/a100/status", body), map[string]string{"id": "a100"})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLibraryCreateAndDelete(t *testing.T) {
	h := NewLibraryHandler(newLibraryService(t))

	body := strings.NewReader(`{"title":"Custom Show","genres":["Drama"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/library", body)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.AnimeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	delReq := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/library/"+created.ID, nil), map[string]string{"id": created.ID})
	delRec := httptest.NewRecorder()
	h.Delete(delRec, delReq)
	require.Equal(t, http.StatusNoContent, delRec.Code)
}

func TestLibraryStats(t *testing.T) {
	svc := newLibraryService(t)
	_, err := svc.UpdateStatus("a100", models.StatusCompleted)
	require.NoError(t, err)
	h := NewLibraryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.LibraryStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.Completed)
	require.NotZero(t, stats.Total)
}
