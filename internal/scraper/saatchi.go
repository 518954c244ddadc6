package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/artsea-london/artsea/internal/event"
	"github.com/artsea-london/artsea/internal/fetch"
)

const saatchiPerPage = 20

// wpExhibition is the subset of a WordPress REST "exhibitions" item we read
type wpExhibition struct {
	ID       int        `json:"id"`
	Link     string     `json:"link"`
	Title    wpText     `json:"title"`
	Excerpt  wpText     `json:"excerpt"`
	Embedded wpEmbedded `json:"_embedded"`
}

type wpEmbedded struct {
	FeaturedMedia []struct {
		SourceURL string `json:"source_url"`
	} `json:"wp:featuredmedia"`
}

type wpText struct {
	Rendered string `json:"rendered"`
}

// Saatchi reads exhibitions from the Saatchi Gallery WordPress REST API.
// The API exposes no dates, so every exhibition starts today.
type Saatchi struct {
	base
}

func (s *Saatchi) Scrape(ctx context.Context) ([]event.Candidate, error) {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			if err := s.fetcher.Delay(ctx); err != nil {
				return events, err
			}
		}

		items, err := s.fetchPage(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			// WordPress answers 400 for a page index past the last page
			var fe *fetch.FetchError
			if errors.As(err, &fe) && fe.StatusCode == http.StatusBadRequest {
				break
			}
			return events, err
		}

		for _, item := range items {
			if c, ok := s.candidate(item, seen); ok {
				events = append(events, c)
			}
		}

		if len(items) < saatchiPerPage {
			break
		}
	}

	return events, nil
}

func (s *Saatchi) fetchPage(ctx context.Context, page int) ([]wpExhibition, error) {
	apiURL := s.url(fmt.Sprintf("/wp-json/wp/v2/exhibitions?per_page=%d&_embed&page=%d", saatchiPerPage, page))
	body, err := s.fetcher.FetchJSON(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	var items []wpExhibition
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", apiURL, err)
	}
	return items, nil
}

func (s *Saatchi) candidate(item wpExhibition, seen seenSet) (event.Candidate, bool) {
	sourceURL := strings.TrimSpace(item.Link)
	if sourceURL == "" || !seen.add(sourceURL) {
		return event.Candidate{}, false
	}

	title := event.StripHTML(item.Title.Rendered)
	if len(title) < minTitleLength {
		return event.Candidate{}, false
	}
	description := event.StripHTML(item.Excerpt.Rendered)

	var image string
	if media := item.Embedded.FeaturedMedia; len(media) > 0 {
		image = media[0].SourceURL
	}

	return newCandidate(title, description, event.Classify(title, description, ""), event.DateRange{}, image, sourceURL), true
}
