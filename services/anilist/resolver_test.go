package anilist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"neonime/services/ratelimit"
)

func newTestResolver(fn roundTripFunc) (*Resolver, *ratelimit.Gate) {
	gate := ratelimit.NewGate()
	policy := ratelimit.NewPolicyWith(gate, 1, time.Millisecond)
	return NewResolver(newTestClient(fn), policy), gate
}

func TestResolveOrdersTimelineChronologically(t *testing.T) {
	// Root aired 2015, its prequel 2010, and a sequel with no announced
	// date. The timeline must come back 2010, 2015, TBA.
	resolver, _ := newTestResolver(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"Media":{
			"id": 2,
			"title": {"english": "Second Season"},
			"description": "<p>Middle of the story.</p>",
			"coverImage": {"extraLarge": "https://img.test/xl.jpg"},
			"averageScore": 84,
			"studios": {"nodes": [{"name": "Bones"}]},
			"startDate": {"year": 2015, "month": 7, "day": 4},
			"episodes": 13,
			"format": "TV",
			"relations": {"edges": [
				{"relationType": "PREQUEL", "node": {
					"id": 1,
					"title": {"english": "First Season"},
					"startDate": {"year": 2010, "month": 1, "day": 8},
					"episodes": 12,
					"format": "TV"
				}},
				{"relationType": "SEQUEL", "node": {
					"id": 3,
					"title": {"english": "Third Season"},
					"startDate": {},
					"episodes": 0,
					"format": "TV"
				}}
			]}
		}}}`), nil
	})

	result, err := resolver.Resolve(context.Background(), "Second Season")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected result")
	}

	want := []struct {
		title string
		date  string
		num   int
	}{
		{"First Season", "2010-01-08", 1},
		{"Second Season", "2015-07-04", 2},
		{"Third Season", "TBA", 3},
	}
	if len(result.Seasons) != len(want) {
		t.Fatalf("expected %d seasons, got %d", len(want), len(result.Seasons))
	}
	for i, w := range want {
		got := result.Seasons[i]
		if got.Title != w.title || got.ReleaseDate != w.date || got.SeasonNumber != w.num {
			t.Fatalf("season %d mismatch: %+v", i, got)
		}
	}
	if result.TotalSeasons != 3 || result.TotalEpisodes != 25 {
		t.Fatalf("unexpected totals: %d seasons, %d episodes", result.TotalSeasons, result.TotalEpisodes)
	}
	if result.ReleaseDate != "2015-07-04" {
		t.Fatalf("release date should come from the searched media, got %q", result.ReleaseDate)
	}
	if result.Synopsis != "Middle of the story." {
		t.Fatalf("markup should be stripped, got %q", result.Synopsis)
	}
	if result.Studio != "Bones" || result.Rating != 8.4 {
		t.Fatalf("unexpected studio/rating: %q %v", result.Studio, result.Rating)
	}
	if result.StoryReview != "Epic saga spanning 3 parts and 25 episodes." {
		t.Fatalf("unexpected story review %q", result.StoryReview)
	}
}

func TestResolveHandlesRelationCycles(t *testing.T) {
	// A and B point at each other. Each id must appear once.
	resolver, _ := newTestResolver(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"Media":{
			"id": 10,
			"title": {"english": "Alpha"},
			"startDate": {"year": 2001, "month": 1, "day": 1},
			"episodes": 26,
			"format": "TV",
			"relations": {"edges": [
				{"relationType": "SEQUEL", "node": {
					"id": 11,
					"title": {"english": "Beta"},
					"startDate": {"year": 2003, "month": 1, "day": 1},
					"episodes": 26,
					"format": "TV",
					"relations": {"edges": [
						{"relationType": "PREQUEL", "node": {
							"id": 10,
							"title": {"english": "Alpha"},
							"startDate": {"year": 2001, "month": 1, "day": 1},
							"episodes": 26,
							"format": "TV"
						}}
					]}
				}}
			]}
		}}}`), nil
	})

	result, err := resolver.Resolve(context.Background(), "Alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalSeasons != 2 {
		t.Fatalf("cycle should not duplicate entries, got %d seasons", result.TotalSeasons)
	}
}

func TestResolveFiltersFormatsAndRelations(t *testing.T) {
	resolver, _ := newTestResolver(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"Media":{
			"id": 20,
			"title": {"romaji": "Honban"},
			"startDate": {"year": 2018, "month": 10, "day": 5},
			"episodes": 12,
			"format": "TV",
			"relations": {"edges": [
				{"relationType": "SIDE_STORY", "node": {
					"id": 21,
					"title": {"english": "Recap Special"},
					"startDate": {"year": 2019, "month": 1, "day": 1},
					"episodes": 1,
					"format": "SPECIAL"
				}},
				{"relationType": "CHARACTER", "node": {
					"id": 22,
					"title": {"english": "Crossover"},
					"startDate": {"year": 2019, "month": 4, "day": 1},
					"episodes": 12,
					"format": "TV"
				}},
				{"relationType": "SEQUEL", "node": {
					"id": 23,
					"title": {"english": "The Movie"},
					"startDate": {"year": 2020, "month": 2, "day": 14},
					"episodes": 1,
					"format": "MOVIE"
				}}
			]}
		}}}`), nil
	})

	result, err := resolver.Resolve(context.Background(), "Honban")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalSeasons != 2 {
		t.Fatalf("expected the TV root and the movie only, got %d seasons", result.TotalSeasons)
	}
	if result.Seasons[0].Title != "Honban" || result.Seasons[1].Title != "The Movie" {
		t.Fatalf("unexpected timeline %+v", result.Seasons)
	}
}

func TestResolveNoMatchReturnsNil(t *testing.T) {
	resolver, _ := newTestResolver(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"Media":null}}`), nil
	})

	result, err := resolver.Resolve(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
}

func TestResolveQuotaTripsGate(t *testing.T) {
	resolver, gate := newTestResolver(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{}`), nil
	})

	_, err := resolver.Resolve(context.Background(), "anything")
	if !errors.Is(err, ratelimit.ErrQuota) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if !gate.Limited() {
		t.Fatal("quota response should close the gate")
	}

	// While the gate is closed the resolver must not touch the network.
	calls := 0
	resolver.client.httpClient = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return nil, fmt.Errorf("should not be called")
	})}
	_, err = resolver.Resolve(context.Background(), "anything")
	if !errors.Is(err, ratelimit.ErrCoolingDown) {
		t.Fatalf("expected cooldown error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("no requests should be made while limited, saw %d", calls)
	}
}

func TestResolveEmptyDescriptionFallback(t *testing.T) {
	resolver, _ := newTestResolver(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"Media":{
			"id": 30,
			"title": {"english": "Quiet Show"},
			"startDate": {"year": 2022, "month": 1, "day": 7},
			"episodes": 12,
			"format": "ONA"
		}}}`), nil
	})

	result, err := resolver.Resolve(context.Background(), "Quiet Show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Synopsis != "No synopsis available." {
		t.Fatalf("unexpected synopsis %q", result.Synopsis)
	}
	if result.Studio != "Unknown Studio" {
		t.Fatalf("unexpected studio %q", result.Studio)
	}
}
