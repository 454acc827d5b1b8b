package models

import "time"

// ListStatus tracks where an entry sits on the user's list.
type ListStatus string

const (
	StatusNone      ListStatus = "None"
	StatusWatching  ListStatus = "Watching"
	StatusCompleted ListStatus = "Completed"
	StatusPlanning  ListStatus = "Planning"
)

// ValidStatus reports whether s is one of the known list statuses.
func ValidStatus(s ListStatus) bool {
	switch s {
	case StatusNone, StatusWatching, StatusCompleted, StatusPlanning:
		return true
	}
	return false
}

// SeasonDetail is one installment on a franchise timeline, ordered by release.
type SeasonDetail struct {
	Title        string `json:"title"`
	ReleaseDate  string `json:"releaseDate"` // YYYY-MM-DD or "TBA"
	Episodes     int    `json:"episodes"`
	SeasonNumber int    `json:"seasonNumber"`
}

// AnimeEntry represents one catalog entry with user state and enriched metadata.
//
// NeedsEnrichment is tri-state: nil means the entry predates enrichment
// tracking and is treated as needing it, true means it is waiting, false
// means a merge has completed.
type AnimeEntry struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Poster          string         `json:"poster"`
	Rating          float64        `json:"rating"`
	Genres          []string       `json:"genres"`
	ReleaseDate     string         `json:"releaseDate,omitempty"`
	Studio          string         `json:"studio,omitempty"`
	Synopsis        string         `json:"synopsis,omitempty"`
	Episodes        int            `json:"episodes,omitempty"`
	TotalSeasons    int            `json:"totalSeasons,omitempty"`
	SeasonsDetails  []SeasonDetail `json:"seasonsDetails,omitempty"`
	EpisodesWatched int            `json:"episodesWatched,omitempty"`
	Status          ListStatus     `json:"status,omitempty"`
	NeedsEnrichment *bool          `json:"needsEnrichment,omitempty"`
	StoryReview     string         `json:"storyReview,omitempty"`
}

// UserStats summarises the profile shown on the dashboard.
type UserStats struct {
	Username       string   `json:"username"`
	Avatar         string   `json:"avatar"`
	WatchedCount   int      `json:"watchedCount"`
	CompletedCount int      `json:"completedCount"`
	PlanningCount  int      `json:"planningCount"`
	FavoriteGenres []string `json:"favoriteGenres"`
}

// Profile is the persisted slice of user identity and presentation.
type Profile struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Theme    string `json:"theme"`
}

// Snapshot is the export/import envelope for a full backup.
type Snapshot struct {
	Version   int          `json:"version"`
	Date      time.Time    `json:"date"`
	AnimeList []AnimeEntry `json:"animeList"`
	UserStats *UserStats   `json:"userStats,omitempty"`
	Theme     string       `json:"currentTheme,omitempty"`
}

// LibraryStats aggregates list counts for the stats endpoint.
type LibraryStats struct {
	Total     int        `json:"total"`
	Watching  int        `json:"watching"`
	Completed int        `json:"completed"`
	Planning  int        `json:"planning"`
	Enriched  int        `json:"enriched"`
	Pending   int        `json:"pending"`
	TopRated  AnimeEntry `json:"topRated"`
}
