package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"neonime/models"
)

const (
	libraryFile = "library_v8.json"
	profileFile = "profile_v1.json"

	defaultUsername = "Miraz Arafath 1234"
	defaultAvatar   = "https://cdn.myanimelist.net/images/characters/9/131317.jpg"
	defaultTheme    = "NEON"
)

var (
	ErrNotFound        = errors.New("anime not found")
	ErrInvalidStatus   = errors.New("invalid list status")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrInvalidSnapshot = errors.New("invalid save file format")
)

var validThemes = map[string]struct{}{
	"NEON":      {},
	"NETRUNNER": {},
	"ARASAKA":   {},
	"ROYAL":     {},
}

var defaultFavoriteGenres = []string{"Action", "Sci-Fi"}

// Sort options accepted by List.
const (
	SortRatingDesc = "rating_desc"
	SortDateNewest = "date_newest"
	SortDateOldest = "date_oldest"
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Search string
	Genre  string
	Status models.ListStatus
	Studio string
	Year   string
	Sort   string
}

// Service owns the anime list and the user profile, both persisted as JSON
// files under a storage directory.
type Service struct {
	mu      sync.RWMutex
	fs      afero.Fs
	dir     string
	entries []models.AnimeEntry
	profile models.Profile
}

// New loads the library from dir, seeding it on first run. Saved state is
// reconciled against the built-in catalog so catalog updates flow into
// existing installs without losing user data.
func New(fs afero.Fs, dir string) (*Service, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	s := &Service{fs: fs, dir: dir}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) load() error {
	saved, err := s.readLibraryFile()
	if err != nil {
		return err
	}
	s.entries = reconcile(seedEntries(), saved)

	profile, err := s.readProfileFile()
	if err != nil {
		return err
	}
	s.profile = profile

	return s.saveLocked()
}

func (s *Service) readLibraryFile() ([]models.AnimeEntry, error) {
	path := filepath.Join(s.dir, libraryFile)
	data, err := afero.ReadFile(s.fs, path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}
	var saved []models.AnimeEntry
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Printf("[library] corrupt library file, starting from the catalog: %v", err)
		return nil, nil
	}
	return saved, nil
}

func (s *Service) readProfileFile() (models.Profile, error) {
	profile := models.Profile{Username: defaultUsername, Avatar: defaultAvatar, Theme: defaultTheme}
	path := filepath.Join(s.dir, profileFile)
	data, err := afero.ReadFile(s.fs, path)
	if os.IsNotExist(err) {
		return profile, nil
	}
	if err != nil {
		return profile, fmt.Errorf("failed to read profile: %w", err)
	}
	var saved models.Profile
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Printf("[library] corrupt profile file, using defaults: %v", err)
		return profile, nil
	}
	if saved.Username != "" {
		profile.Username = saved.Username
	}
	if saved.Avatar != "" {
		profile.Avatar = saved.Avatar
	}
	if _, ok := validThemes[saved.Theme]; ok {
		profile.Theme = saved.Theme
	}
	return profile, nil
}

// reconcile merges saved state onto the baseline catalog. Matching is by
// title, the baseline id always wins so catalog reorders keep stable ids.
// Matched entries get a field-level overlay, fields the saved copy omitted
// keep their baseline values. Saved entries with no catalog match are user
// additions and are kept.
func reconcile(baseline, saved []models.AnimeEntry) []models.AnimeEntry {
	byTitle := make(map[string]int, len(saved))
	for i, e := range saved {
		if _, dup := byTitle[e.Title]; !dup {
			byTitle[e.Title] = i
		}
	}

	matched := make(map[int]struct{}, len(saved))
	merged := make([]models.AnimeEntry, 0, len(baseline))
	for _, base := range baseline {
		if i, ok := byTitle[base.Title]; ok {
			merged = append(merged, overlay(base, saved[i]))
			matched[i] = struct{}{}
			continue
		}
		merged = append(merged, base)
	}
	for i, e := range saved {
		if _, ok := matched[i]; !ok {
			merged = append(merged, e)
		}
	}
	return merged
}

// overlay copies the non-empty fields of saved onto base. The id is always
// base's, so canonical ids survive partial imports.
func overlay(base, saved models.AnimeEntry) models.AnimeEntry {
	out := base
	if saved.Poster != "" {
		out.Poster = saved.Poster
	}
	if saved.Rating != 0 {
		out.Rating = saved.Rating
	}
	if len(saved.Genres) > 0 {
		out.Genres = saved.Genres
	}
	if saved.ReleaseDate != "" {
		out.ReleaseDate = saved.ReleaseDate
	}
	if saved.Studio != "" {
		out.Studio = saved.Studio
	}
	if saved.Synopsis != "" {
		out.Synopsis = saved.Synopsis
	}
	if saved.Episodes != 0 {
		out.Episodes = saved.Episodes
	}
	if saved.TotalSeasons != 0 {
		out.TotalSeasons = saved.TotalSeasons
	}
	if len(saved.SeasonsDetails) > 0 {
		out.SeasonsDetails = saved.SeasonsDetails
	}
	if saved.EpisodesWatched != 0 {
		out.EpisodesWatched = saved.EpisodesWatched
	}
	if saved.Status != "" {
		out.Status = saved.Status
	}
	if saved.NeedsEnrichment != nil {
		out.NeedsEnrichment = saved.NeedsEnrichment
	}
	if saved.StoryReview != "" {
		out.StoryReview = saved.StoryReview
	}
	return out
}

// saveLocked writes both files atomically. Callers must hold mu.
func (s *Service) saveLocked() error {
	if err := s.writeJSON(libraryFile, s.entries); err != nil {
		return err
	}
	return s.writeJSON(profileFile, s.profile)
}

func (s *Service) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Entries returns a copy of the full list in catalog order.
func (s *Service) Entries() []models.AnimeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AnimeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// List applies filters and sorting on top of the catalog order.
func (s *Service) List(f Filter) []models.AnimeEntry {
	entries := s.Entries()

	out := entries[:0:0]
	search := strings.ToLower(f.Search)
	for _, e := range entries {
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		if f.Genre != "" && !hasGenre(e, f.Genre) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Studio != "" && e.Studio != f.Studio {
			continue
		}
		if f.Year != "" && !strings.Contains(e.ReleaseDate, f.Year) {
			continue
		}
		out = append(out, e)
	}

	switch f.Sort {
	case SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortDateNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReleaseDate > out[j].ReleaseDate })
	case SortDateOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReleaseDate < out[j].ReleaseDate })
	}
	return out
}

func matchesSearch(e models.AnimeEntry, search string) bool {
	if strings.Contains(strings.ToLower(e.Title), search) {
		return true
	}
	for _, g := range e.Genres {
		if strings.Contains(strings.ToLower(g), search) {
			return true
		}
	}
	return false
}

func hasGenre(e models.AnimeEntry, genre string) bool {
	for _, g := range e.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// TopRated returns the n highest rated entries.
func (s *Service) TopRated(n int) []models.AnimeEntry {
	entries := s.Entries()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rating > entries[j].Rating })
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Get returns the entry with the given id.
func (s *Service) Get(id string) (models.AnimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.AnimeEntry{}, ErrNotFound
}

// Add appends a user entry. New entries start out pending enrichment.
func (s *Service) Add(entry models.AnimeEntry) (models.AnimeEntry, error) {
	if strings.TrimSpace(entry.Title) == "" {
		return models.AnimeEntry{}, fmt.Errorf("title is required")
	}
	if entry.Status == "" {
		entry.Status = models.StatusNone
	}
	if !models.ValidStatus(entry.Status) {
		return models.AnimeEntry{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = uuid.NewString()
	needs := true
	entry.NeedsEnrichment = &needs
	s.entries = append(s.entries, entry)
	if err := s.saveLocked(); err != nil {
		return models.AnimeEntry{}, err
	}
	return entry, nil
}

// Delete removes an entry by id.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.saveLocked()
		}
	}
	return ErrNotFound
}

// UpdateStatus moves an entry between list buckets.
func (s *Service) UpdateStatus(id string, status models.ListStatus) (models.AnimeEntry, error) {
	if !models.ValidStatus(status) {
		return models.AnimeEntry{}, ErrInvalidStatus
	}
	return s.update(id, func(e *models.AnimeEntry) {
		e.Status = status
	})
}

// SetRating overrides the displayed rating.
func (s *Service) SetRating(id string, rating float64) (models.AnimeEntry, error) {
	return s.update(id, func(e *models.AnimeEntry) {
		e.Rating = rating
	})
}

// SetEpisodesWatched records watch progress, clamped to the episode count.
func (s *Service) SetEpisodesWatched(id string, watched int) (models.AnimeEntry, error) {
	return s.update(id, func(e *models.AnimeEntry) {
		if watched < 0 {
			watched = 0
		}
		if e.Episodes > 0 && watched > e.Episodes {
			watched = e.Episodes
		}
		e.EpisodesWatched = watched
	})
}

func (s *Service) update(id string, apply func(*models.AnimeEntry)) (models.AnimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		apply(&s.entries[i])
		if err := s.saveLocked(); err != nil {
			return models.AnimeEntry{}, err
		}
		return s.entries[i], nil
	}
	return models.AnimeEntry{}, ErrNotFound
}

// ApplyEnrichment folds fetched metadata into an entry. Existing values are
// kept wherever the result came back empty, and the user's id, status and
// watch progress are never touched. Applying the same result twice is a
// no-op, so a repeated fetch after a partial failure is safe.
func (s *Service) ApplyEnrichment(id string, result *models.EnrichmentResult) (models.AnimeEntry, error) {
	if result == nil {
		return models.AnimeEntry{}, fmt.Errorf("nil enrichment result")
	}
	return s.update(id, func(e *models.AnimeEntry) {
		if result.PosterURL != "" {
			e.Poster = result.PosterURL
		}
		if result.Rating != 0 {
			e.Rating = result.Rating
		}
		if result.Studio != "" {
			e.Studio = result.Studio
		}
		if result.ReleaseDate != "" {
			e.ReleaseDate = result.ReleaseDate
		}
		if result.Synopsis != "" {
			e.Synopsis = result.Synopsis
		}
		if result.StoryReview != "" {
			e.StoryReview = result.StoryReview
		}
		e.TotalSeasons = result.TotalSeasons
		e.Episodes = result.TotalEpisodes
		if len(result.Seasons) > 0 {
			e.SeasonsDetails = append([]models.SeasonDetail(nil), result.Seasons...)
		}
		done := false
		e.NeedsEnrichment = &done
	})
}

// Export packages the whole library state for backup.
func (s *Service) Export() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.AnimeEntry, len(s.entries))
	copy(list, s.entries)
	stats := s.userStatsLocked()
	return models.Snapshot{
		Version:   1,
		Date:      time.Now().UTC(),
		AnimeList: list,
		UserStats: &stats,
		Theme:     s.profile.Theme,
	}
}

// Import restores a backup produced by Export. The snapshot list is merged
// through the same title reconciliation as a normal load.
func (s *Service) Import(data []byte) error {
	if kind := mimetype.Detect(data); !kind.Is("application/json") && !kind.Is("text/plain") {
		return fmt.Errorf("%w: got %s", ErrInvalidSnapshot, kind.String())
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.AnimeList == nil {
		return ErrInvalidSnapshot
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = reconcile(seedEntries(), snap.AnimeList)
	if snap.UserStats != nil {
		if snap.UserStats.Username != "" {
			s.profile.Username = snap.UserStats.Username
		}
		if snap.UserStats.Avatar != "" {
			s.profile.Avatar = snap.UserStats.Avatar
		}
	}
	if _, ok := validThemes[snap.Theme]; ok {
		s.profile.Theme = snap.Theme
	}
	return s.saveLocked()
}

// Reset wipes all saved state and returns to the fresh-install view.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range []string{libraryFile, profileFile} {
		if err := s.fs.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	s.entries = seedEntries()
	s.profile = models.Profile{Username: defaultUsername, Avatar: defaultAvatar, Theme: defaultTheme}
	return s.saveLocked()
}

// Stats aggregates list counts for the dashboard.
func (s *Service) Stats() models.LibraryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := models.LibraryStats{Total: len(s.entries)}
	var top models.AnimeEntry
	for _, e := range s.entries {
		switch e.Status {
		case models.StatusWatching:
			stats.Watching++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusPlanning:
			stats.Planning++
		}
		if e.NeedsEnrichment != nil && !*e.NeedsEnrichment {
			stats.Enriched++
		} else {
			stats.Pending++
		}
		if e.Rating > top.Rating {
			top = e
		}
	}
	stats.TopRated = top
	return stats
}

// Profile returns the current user profile.
func (s *Service) Profile() models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// UpdateProfile changes the display name and avatar. Empty fields keep
// their current value.
func (s *Service) UpdateProfile(username, avatar string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if username != "" {
		s.profile.Username = username
	}
	if avatar != "" {
		s.profile.Avatar = avatar
	}
	if err := s.saveLocked(); err != nil {
		return models.Profile{}, err
	}
	return s.profile, nil
}

// SetTheme switches the UI theme.
func (s *Service) SetTheme(theme string) (models.Profile, error) {
	if _, ok := validThemes[theme]; !ok {
		return models.Profile{}, ErrInvalidTheme
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Theme = theme
	if err := s.saveLocked(); err != nil {
		return models.Profile{}, err
	}
	return s.profile, nil
}

// UserStats derives the dashboard profile block from the list.
func (s *Service) UserStats() models.UserStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userStatsLocked()
}

func (s *Service) userStatsLocked() models.UserStats {
	stats := models.UserStats{
		Username:       s.profile.Username,
		Avatar:         s.profile.Avatar,
		FavoriteGenres: append([]string(nil), defaultFavoriteGenres...),
	}
	for _, e := range s.entries {
		switch e.Status {
		case models.StatusWatching:
			stats.WatchedCount++
		case models.StatusCompleted:
			stats.CompletedCount++
		case models.StatusPlanning:
			stats.PlanningCount++
		}
	}
	return stats
}
