package enrichment

import "neonime/models"

// State classifies an entry for the enrichment pipeline.
type State int

const (
	// StatePending means the entry still needs a metadata fetch, either
	// because it is flagged or because a core field is missing.
	StatePending State = iota
	// StateEnriched means a merge completed and the core fields are set.
	StateEnriched
)

// StateOf reports whether an entry needs enrichment. A cleared flag means a
// merge completed. Entries whose synopsis, studio and release date are all
// present count as enriched even when the flag was never set, so imported
// data does not trigger a redundant fetch.
func StateOf(e models.AnimeEntry) State {
	if e.NeedsEnrichment != nil && !*e.NeedsEnrichment {
		return StateEnriched
	}
	if e.Synopsis != "" && e.Studio != "" && e.ReleaseDate != "" {
		return StateEnriched
	}
	return StatePending
}
