package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"neonime/api"
	"neonime/config"
	"neonime/handlers"
	"neonime/services/anilist"
	"neonime/services/chatlog"
	"neonime/services/companion"
	"neonime/services/enrichment"
	"neonime/services/library"
	"neonime/services/ratelimit"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	warmSummaries := flag.Bool("warm-summaries", false, "precompute AI summary hooks for the library on startup")
	flag.Parse()

	fmt.Println("🚀 neonime backend starting...")

	// .env is optional, the variables may come from the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	configPath := os.Getenv("NEONIME_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("data", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, summaries, genre art and chat will fail upstream")
	}

	// Core services. Everything that talks to an external API shares one
	// gate so a quota hit anywhere cools the whole pipeline down.
	gate := ratelimit.NewGate()
	policy := ratelimit.NewPolicyWith(
		gate,
		uint(settings.Enrichment.MaxRetries),
		time.Duration(settings.Enrichment.RetryBaseDelayMS)*time.Millisecond,
	)

	libraryService, err := library.New(afero.NewOsFs(), settings.Storage.Directory)
	if err != nil {
		log.Fatalf("failed to open library: %v", err)
	}

	chatLog, err := chatlog.New(settings.Storage.ChatDatabase)
	if err != nil {
		log.Fatalf("failed to open chat log: %v", err)
	}
	defer chatLog.Close()

	resolver := anilist.NewResolver(anilist.NewClient(settings.AniList.Endpoint), policy)
	companionService := companion.NewService(companion.NewClient(settings.Gemini.BaseURL, geminiKey), policy)

	coordinator := enrichment.NewCoordinator(
		libraryService,
		resolver,
		gate,
		time.Duration(settings.Enrichment.SweepIntervalSeconds)*time.Second,
	)
	coordinator.Start()
	defer coordinator.Stop()

	if *warmSummaries {
		go companionService.WarmSummaries(context.Background(), libraryService.Entries())
	}

	// Router and handlers
	r := mux.NewRouter()
	api.Register(
		r,
		handlers.NewLibraryHandler(libraryService),
		handlers.NewEnrichmentHandler(coordinator, gate),
		handlers.NewCompanionsHandler(companionService, chatLog),
		handlers.NewMediaHandler(libraryService, companionService, gate),
		handlers.NewProfileHandler(libraryService),
		handlers.NewSnapshotHandler(libraryService, chatLog),
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coordinator.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
