package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"neonime/services/ratelimit"
)

const defaultEndpoint = "https://graphql.anilist.co"

// mediaQuery fetches a series by title along with three levels of related
// media so the resolver can walk sequels, prequels and side stories without
// issuing one request per node.
const mediaQuery = `query ($search: String) {
  Media(search: $search, type: ANIME, sort: SEARCH_MATCH) {
    id
    title { english romaji }
    description
    coverImage { extraLarge large }
    averageScore
    studios(isMain: true) { nodes { name } }
    startDate { year month day }
    episodes
    format
    relations {
      edges {
        relationType
        node {
          id
          title { english romaji }
          startDate { year month day }
          episodes
          format
          relations {
            edges {
              relationType
              node {
                id
                title { english romaji }
                startDate { year month day }
                episodes
                format
                relations {
                  edges {
                    relationType
                    node {
                      id
                      title { english romaji }
                      startDate { year month day }
                      episodes
                      format
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

type mediaTitle struct {
	English string `json:"english"`
	Romaji  string `json:"romaji"`
}

type fuzzyDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type coverImage struct {
	ExtraLarge string `json:"extraLarge"`
	Large      string `json:"large"`
}

type studioNodes struct {
	Nodes []struct {
		Name string `json:"name"`
	} `json:"nodes"`
}

type relationEdge struct {
	RelationType string     `json:"relationType"`
	Node         *mediaNode `json:"node"`
}

type mediaNode struct {
	ID           int         `json:"id"`
	Title        mediaTitle  `json:"title"`
	Description  string      `json:"description"`
	CoverImage   coverImage  `json:"coverImage"`
	AverageScore int         `json:"averageScore"`
	Studios      studioNodes `json:"studios"`
	StartDate    fuzzyDate   `json:"startDate"`
	Episodes     int         `json:"episodes"`
	Format       string      `json:"format"`
	Relations    *struct {
		Edges []relationEdge `json:"edges"`
	} `json:"relations"`
}

type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Media *mediaNode `json:"Media"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Client is a minimal AniList GraphQL client. Retry and cooldown behavior
// is layered on by the caller, a single Search issues exactly one request.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   endpoint,
	}
}

// ErrQuotaExceeded is returned when AniList responds with HTTP 429. It
// wraps ratelimit.ErrQuota so the retry policy trips the shared gate.
var ErrQuotaExceeded = fmt.Errorf("anilist: %w", ratelimit.ErrQuota)

// Search looks up a series by title and returns its media graph, or nil
// when AniList has no match.
func (c *Client) Search(ctx context.Context, title string) (*mediaNode, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     mediaQuery,
		Variables: map[string]string{"search": title},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anilist request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrQuotaExceeded
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("anilist returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode anilist response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		log.Printf("[anilist] query for %q returned error: %s", title, parsed.Errors[0].Message)
		return nil, fmt.Errorf("anilist error: %s", parsed.Errors[0].Message)
	}

	return parsed.Data.Media, nil
}
