package anilist

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"

	"neonime/models"
	"neonime/services/ratelimit"
)

// undatedSentinel sorts unannounced seasons to the end of the timeline.
const undatedSentinel = "9999-99-99"

// TBA is shown for seasons with no announced release date.
const TBA = "TBA"

const maxRelationDepth = 3

var markupPattern = regexp.MustCompile(`<[^>]*>?`)

// allowedFormats limits the timeline to watchable entries, music videos
// and specials are left out.
var allowedFormats = map[string]struct{}{
	"TV":       {},
	"MOVIE":    {},
	"OVA":      {},
	"ONA":      {},
	"TV_SHORT": {},
}

// followedRelations are the franchise edges worth walking.
var followedRelations = map[string]struct{}{
	"SEQUEL":      {},
	"PREQUEL":     {},
	"PARENT":      {},
	"SIDE_STORY":  {},
	"ALTERNATIVE": {},
}

type season struct {
	title    string
	date     string
	episodes int
}

// Resolver turns a series title into a full enrichment result by walking
// the AniList relation graph and flattening it into a season timeline.
type Resolver struct {
	client *Client
	policy *ratelimit.Policy
}

func NewResolver(client *Client, policy *ratelimit.Policy) *Resolver {
	return &Resolver{client: client, policy: policy}
}

// Resolve fetches the franchise graph for title. It returns (nil, nil)
// when AniList has no matching media.
func (r *Resolver) Resolve(ctx context.Context, title string) (*models.EnrichmentResult, error) {
	root, err := ratelimit.Execute(ctx, r.policy, func(ctx context.Context) (*mediaNode, error) {
		return r.client.Search(ctx, title)
	})
	if err != nil {
		return nil, err
	}
	if root == nil {
		log.Printf("[anilist] no media found for %q", title)
		return nil, nil
	}

	visited := make(map[int]struct{})
	var seasons []season
	collectSeasons(root, visited, 0, &seasons)

	sort.SliceStable(seasons, func(i, j int) bool {
		return seasons[i].date < seasons[j].date
	})

	details := make([]models.SeasonDetail, 0, len(seasons))
	totalEpisodes := 0
	for i, s := range seasons {
		totalEpisodes += s.episodes
		details = append(details, models.SeasonDetail{
			Title:        s.title,
			ReleaseDate:  displayDate(s.date),
			Episodes:     s.episodes,
			SeasonNumber: i + 1,
		})
	}

	result := &models.EnrichmentResult{
		Synopsis:      synopsis(root.Description),
		Studio:        mainStudio(root.Studios),
		Rating:        math.Round(float64(root.AverageScore)) / 10,
		PosterURL:     poster(root.CoverImage),
		TotalSeasons:  len(details),
		TotalEpisodes: totalEpisodes,
		Seasons:       details,
		StoryReview:   fmt.Sprintf("Epic saga spanning %d parts and %d episodes.", len(details), totalEpisodes),
	}
	if date := sortableDate(root.StartDate); date != undatedSentinel {
		result.ReleaseDate = date
	} else {
		result.ReleaseDate = "Unknown"
	}
	return result, nil
}

// collectSeasons walks the relation graph depth first, keeping one entry
// per media id regardless of how many edges reach it.
func collectSeasons(node *mediaNode, visited map[int]struct{}, depth int, out *[]season) {
	if node == nil || depth > maxRelationDepth {
		return
	}
	if _, seen := visited[node.ID]; seen {
		return
	}
	visited[node.ID] = struct{}{}

	if _, ok := allowedFormats[node.Format]; ok {
		*out = append(*out, season{
			title:    nodeTitle(node.Title),
			date:     sortableDate(node.StartDate),
			episodes: node.Episodes,
		})
	}

	if node.Relations == nil {
		return
	}
	for _, edge := range node.Relations.Edges {
		if _, follow := followedRelations[edge.RelationType]; !follow {
			continue
		}
		collectSeasons(edge.Node, visited, depth+1, out)
	}
}

func nodeTitle(t mediaTitle) string {
	if t.English != "" {
		return t.English
	}
	return t.Romaji
}

func sortableDate(d fuzzyDate) string {
	if d.Year == 0 {
		return undatedSentinel
	}
	month, day := d.Month, d.Day
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return fmt.Sprintf("%d-%02d-%02d", d.Year, month, day)
}

func displayDate(date string) string {
	if date == undatedSentinel {
		return TBA
	}
	return date
}

func synopsis(description string) string {
	clean := strings.TrimSpace(markupPattern.ReplaceAllString(description, ""))
	if clean == "" {
		return "No synopsis available."
	}
	return clean
}

func mainStudio(s studioNodes) string {
	if len(s.Nodes) > 0 && s.Nodes[0].Name != "" {
		return s.Nodes[0].Name
	}
	return "Unknown Studio"
}

func poster(c coverImage) string {
	if c.ExtraLarge != "" {
		return c.ExtraLarge
	}
	return c.Large
}
