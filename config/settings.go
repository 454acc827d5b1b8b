package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server     ServerSettings     `json:"server"`
	Storage    StorageSettings    `json:"storage"`
	AniList    AniListSettings    `json:"anilist"`
	Gemini     GeminiSettings     `json:"gemini"`
	Enrichment EnrichmentSettings `json:"enrichment"`
	Log        LogConfig          `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// StorageSettings controls where the library, profile and chat files live.
type StorageSettings struct {
	Directory    string `json:"directory"`
	ChatDatabase string `json:"chatDatabase"`
}

type AniListSettings struct {
	Endpoint string `json:"endpoint"`
}

// GeminiSettings configures the generative API. The key itself comes from
// the GEMINI_API_KEY environment variable, not from this file.
type GeminiSettings struct {
	BaseURL string `json:"baseUrl"`
}

// EnrichmentSettings tunes the background pipeline.
type EnrichmentSettings struct {
	SweepIntervalSeconds int `json:"sweepIntervalSeconds"`
	MaxRetries           int `json:"maxRetries"`
	RetryBaseDelayMS     int `json:"retryBaseDelayMs"`
}

type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns sane defaults for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Server:  ServerSettings{Host: "0.0.0.0", Port: 8890},
		Storage: StorageSettings{Directory: "data", ChatDatabase: "data/chat.db"},
		AniList: AniListSettings{Endpoint: "https://graphql.anilist.co"},
		Gemini:  GeminiSettings{BaseURL: "https://generativelanguage.googleapis.com/v1beta"},
		Enrichment: EnrichmentSettings{
			SweepIntervalSeconds: 30,
			MaxRetries:           3,
			RetryBaseDelayMS:     1000,
		},
		Log: LogConfig{
			File:       "data/logs/backend.log",
			Level:      "info",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures the parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}

	// Backfill defaults for settings a pre-existing config may not carry.
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = "0.0.0.0"
	}
	if s.Server.Port == 0 {
		s.Server.Port = 8890
	}
	if strings.TrimSpace(s.Storage.Directory) == "" {
		s.Storage.Directory = "data"
	}
	if strings.TrimSpace(s.Storage.ChatDatabase) == "" {
		s.Storage.ChatDatabase = filepath.Join(s.Storage.Directory, "chat.db")
	}
	if strings.TrimSpace(s.AniList.Endpoint) == "" {
		s.AniList.Endpoint = "https://graphql.anilist.co"
	}
	if strings.TrimSpace(s.Gemini.BaseURL) == "" {
		s.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if s.Enrichment.SweepIntervalSeconds == 0 {
		s.Enrichment.SweepIntervalSeconds = 30
	}
	if s.Enrichment.MaxRetries == 0 {
		s.Enrichment.MaxRetries = 3
	}
	if s.Enrichment.RetryBaseDelayMS == 0 {
		s.Enrichment.RetryBaseDelayMS = 1000
	}
	if strings.TrimSpace(s.Log.File) == "" {
		s.Log.File = filepath.Join(s.Storage.Directory, "logs", "backend.log")
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = 50
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = 3
	}
	if s.Log.MaxAge == 0 {
		s.Log.MaxAge = 7
	}

	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
