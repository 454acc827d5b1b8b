package companion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"neonime/models"
	"neonime/services/ratelimit"
)

const (
	summaryModel = "gemini-3-flash-preview"
	chatModel    = "gemini-3-flash-preview"
	imageModel   = "gemini-2.5-flash-image"

	chatMaxOutputTokens = 150
	summaryTemperature  = 0.8

	// Canned replies shown when the model cannot answer.
	cooldownReply    = "System cooldown active."
	interruptedReply = "Connection interrupted."

	warmConcurrency = 4
)

var ErrUnknownCompanion = errors.New("unknown companion")

// Service wraps the Gemini API for summaries, genre art and character chat.
// Summaries and images are cached for the life of the process, cache hits
// never touch the rate limit gate.
type Service struct {
	client *Client
	policy *ratelimit.Policy

	mu        sync.Mutex
	summaries map[string]string
	images    map[string]string
}

func NewService(client *Client, policy *ratelimit.Policy) *Service {
	return &Service{
		client:    client,
		policy:    policy,
		summaries: make(map[string]string),
		images:    make(map[string]string),
	}
}

// Companions returns the chat roster.
func (s *Service) Companions() []models.Companion {
	out := make([]models.Companion, len(roster))
	copy(out, roster)
	return out
}

// Companion looks up one roster entry by id.
func (s *Service) Companion(id string) (models.Companion, error) {
	for _, c := range roster {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Companion{}, ErrUnknownCompanion
}

// ShortSummary returns a one line hook for a title, cached by entry id.
func (s *Service) ShortSummary(ctx context.Context, id, title string) (string, error) {
	s.mu.Lock()
	if cached, ok := s.summaries[id]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	temp := summaryTemperature
	prompt := fmt.Sprintf("Provide a 1-sentence, high-energy mystery hook for the anime: %s. Keep it under 15 words.", title)

	resp, err := ratelimit.Execute(ctx, s.policy, func(ctx context.Context) (*generateResponse, error) {
		return s.client.Generate(ctx, summaryModel, generateRequest{
			Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
			GenerationConfig: &generationConfig{Temperature: &temp},
		})
	})
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(resp.text())
	if summary != "" {
		s.mu.Lock()
		s.summaries[id] = summary
		s.mu.Unlock()
	}
	return summary, nil
}

// WarmSummaries precomputes hooks for a batch of entries. Failures are
// logged and skipped, a warm pass is best effort.
func (s *Service) WarmSummaries(ctx context.Context, entries []models.AnimeEntry) {
	p := pool.New().WithMaxGoroutines(warmConcurrency)
	for _, e := range entries {
		p.Go(func() {
			if _, err := s.ShortSummary(ctx, e.ID, e.Title); err != nil {
				log.Printf("[companion] summary warmup failed for %q: %v", e.Title, err)
			}
		})
	}
	p.Wait()
}

// GenreImage generates themed artwork for a genre and returns it as a data
// URL, cached by genre.
func (s *Service) GenreImage(ctx context.Context, genre, style string) (string, error) {
	s.mu.Lock()
	if cached, ok := s.images[genre]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	prompt := fmt.Sprintf("Generate a high quality, anime-style image: %s", genreImagePrompt(genre, style))

	resp, err := ratelimit.Execute(ctx, s.policy, func(ctx context.Context) (*generateResponse, error) {
		return s.client.Generate(ctx, imageModel, generateRequest{
			Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		})
	})
	if err != nil {
		return "", err
	}

	data := resp.inline()
	if data == nil {
		return "", fmt.Errorf("gemini returned no image for %q", genre)
	}
	url := "data:image/png;base64," + data.Data
	s.mu.Lock()
	s.images[genre] = url
	s.mu.Unlock()
	return url, nil
}

// Chat sends one message to a companion in character. The reply is always a
// displayable string, upstream failures degrade to canned lines.
func (s *Service) Chat(ctx context.Context, companionID string, history []models.ChatMessage, message string) (string, error) {
	char, err := s.Companion(companionID)
	if err != nil {
		return "", err
	}
	if s.policy.Gate().Limited() {
		return cooldownReply, nil
	}

	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{Role: m.Role, Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: message}}})

	resp, err := s.client.Generate(ctx, chatModel, generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: char.SystemPrompt}}},
		GenerationConfig:  &generationConfig{MaxOutputTokens: chatMaxOutputTokens},
	})
	if err != nil {
		if errors.Is(err, ratelimit.ErrQuota) {
			s.policy.Gate().TripQuota()
		}
		log.Printf("[companion] chat with %s failed: %v", companionID, err)
		return interruptedReply, nil
	}
	return resp.text(), nil
}
