package models

// EnrichmentResult is the derived franchise view merged into an entry after a
// successful lookup. Empty string / zero fields mean the upstream had nothing
// and the existing value must be kept.
type EnrichmentResult struct {
	Synopsis      string         `json:"synopsis"`
	Studio        string         `json:"studio"`
	ReleaseDate   string         `json:"releaseDate"`
	Rating        float64        `json:"rating"`
	PosterURL     string         `json:"posterUrl"`
	TotalSeasons  int            `json:"totalSeasons"`
	TotalEpisodes int            `json:"totalEpisodes"`
	Seasons       []SeasonDetail `json:"seasonsDetails"`
	StoryReview   string         `json:"storyReview"`
}

// SyncProgress reports how far a bulk sync has advanced.
type SyncProgress struct {
	Running bool `json:"running"`
	Current int  `json:"current"`
	Total   int  `json:"total"`
}
