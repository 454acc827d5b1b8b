package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neonime/models"
	"neonime/services/enrichment"
	"neonime/services/ratelimit"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type fixedResolver struct {
	result *models.EnrichmentResult
	err    error
}

func (r *fixedResolver) Resolve(ctx context.Context, title string) (*models.EnrichmentResult, error) {
	return r.result, r.err
}

func newEnrichmentHandler(t *testing.T, resolver enrichment.Resolver, gate *ratelimit.Gate) *EnrichmentHandler {
	t.Helper()
	svc := newLibraryService(t)
	coord := enrichment.NewCoordinator(svc, resolver, gate, time.Minute)
	return NewEnrichmentHandler(coord, gate)
}

func TestEnrichOne(t *testing.T) {
	resolver := &fixedResolver{result: &models.EnrichmentResult{
		Synopsis:    "A pirate crew sails the Grand Line.",
		Studio:      "Toei Animation",
		ReleaseDate: "1999-10-20",
	}}
	h := newEnrichmentHandler(t, resolver, ratelimit.NewGate())

	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/api/enrich/a100", nil), map[string]string{"id": "a100"})
	rec := httptest.NewRecorder()
	h.EnrichOne(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entry models.AnimeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	require.Equal(t, "Toei Animation", entry.Studio)
	require.NotNil(t, entry.NeedsEnrichment)
	require.False(t, *entry.NeedsEnrichment)
}

func TestEnrichOneNotFound(t *testing.T) {
	h := newEnrichmentHandler(t, &fixedResolver{}, ratelimit.NewGate())

	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/api/enrich/zzz", nil), map[string]string{"id": "zzz"})
	rec := httptest.NewRecorder()
	h.EnrichOne(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnrichOneRateLimited(t *testing.T) {
	gate := ratelimit.NewGate()
	gate.TripQuota()
	h := newEnrichmentHandler(t, &fixedResolver{err: ratelimit.ErrCoolingDown}, gate)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/api/enrich/a100", nil), map[string]string{"id": "a100"})
	rec := httptest.NewRecorder()
	h.EnrichOne(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestPendingListsSeededEntries(t *testing.T) {
	h := newEnrichmentHandler(t, &fixedResolver{}, ratelimit.NewGate())

	req := httptest.NewRequest(http.MethodGet, "/api/enrich/pending", nil)
	rec := httptest.NewRecorder()
	h.Pending(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var pending []models.AnimeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	require.Len(t, pending, 50)
}

func TestProgressDefaultsIdle(t *testing.T) {
	h := newEnrichmentHandler(t, &fixedResolver{}, ratelimit.NewGate())

	req := httptest.NewRequest(http.MethodGet, "/api/enrich/progress", nil)
	rec := httptest.NewRecorder()
	h.Progress(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var progress models.SyncProgress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	require.False(t, progress.Running)
}
