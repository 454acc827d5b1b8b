package api

import (
	"net/http"

	"neonime/handlers"

	"github.com/gorilla/mux"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	libraryHandler *handlers.LibraryHandler,
	enrichmentHandler *handlers.EnrichmentHandler,
	companionsHandler *handlers.CompanionsHandler,
	mediaHandler *handlers.MediaHandler,
	profileHandler *handlers.ProfileHandler,
	snapshotHandler *handlers.SnapshotHandler,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Library
	api.HandleFunc("/library", libraryHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/library", libraryHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/library", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/library/{id}", libraryHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/library/{id}", libraryHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/library/{id}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/library/{id}/status", libraryHandler.UpdateStatus).Methods(http.MethodPut)
	api.HandleFunc("/library/{id}/status", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/library/{id}/rating", libraryHandler.UpdateRating).Methods(http.MethodPut)
	api.HandleFunc("/library/{id}/rating", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/library/{id}/progress", libraryHandler.UpdateProgress).Methods(http.MethodPut)
	api.HandleFunc("/library/{id}/progress", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/stats", libraryHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/stats", handleOptions).Methods(http.MethodOptions)

	// Enrichment pipeline
	api.HandleFunc("/enrich/sync", enrichmentHandler.StartSync).Methods(http.MethodPost)
	api.HandleFunc("/enrich/sync", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/enrich/progress", enrichmentHandler.Progress).Methods(http.MethodGet)
	api.HandleFunc("/enrich/progress", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/enrich/pending", enrichmentHandler.Pending).Methods(http.MethodGet)
	api.HandleFunc("/enrich/pending", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/enrich/{id}", enrichmentHandler.EnrichOne).Methods(http.MethodPost)
	api.HandleFunc("/enrich/{id}", handleOptions).Methods(http.MethodOptions)

	// Companions and generated extras
	api.HandleFunc("/companions", companionsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/companions", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/companions/{id}/chat", companionsHandler.Chat).Methods(http.MethodPost)
	api.HandleFunc("/companions/{id}/chat", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/companions/{id}/history", companionsHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/companions/{id}/history", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/summary/{id}", mediaHandler.Summary).Methods(http.MethodGet)
	api.HandleFunc("/summary/{id}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/genre-image", mediaHandler.GenreImage).Methods(http.MethodGet)
	api.HandleFunc("/genre-image", handleOptions).Methods(http.MethodOptions)

	// Profile
	api.HandleFunc("/profile", profileHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/profile", profileHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/profile", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/profile/theme", profileHandler.SetTheme).Methods(http.MethodPut)
	api.HandleFunc("/profile/theme", handleOptions).Methods(http.MethodOptions)

	// Backup
	api.HandleFunc("/export", snapshotHandler.Export).Methods(http.MethodGet)
	api.HandleFunc("/export", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/import", snapshotHandler.Import).Methods(http.MethodPost)
	api.HandleFunc("/import", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/reset", snapshotHandler.Reset).Methods(http.MethodPost)
	api.HandleFunc("/reset", handleOptions).Methods(http.MethodOptions)

	// Health
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
}
