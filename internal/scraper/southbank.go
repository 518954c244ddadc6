package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// Southbank scrapes the Southbank Centre what's-on listing
type Southbank struct {
	base
}

func (s *Southbank) Scrape(ctx context.Context) ([]event.Candidate, error) {
	pageURL := s.url("/whats-on")
	doc, err := s.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return s.parse(doc, pageURL), nil
}

func (s *Southbank) parse(doc *goquery.Document, pageURL string) []event.Candidate {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	doc.Find("a[href*='/whats-on/']").Each(func(i int, card *goquery.Selection) {
		href, _ := card.Attr("href")
		if href == "" || href == "/whats-on" || href == "/whats-on/" || strings.Contains(href, "?") {
			return
		}

		title := cardTitle(card, "h2, h3, [class*='title']")
		if len(title) < minTitleLength || len(title) > event.MaxTitleLength {
			return
		}

		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		dateText := strings.TrimSpace(card.Find("[class*='date'], time").Text())
		description := textOf(card, "[class*='description'], [class*='summary'], p")

		c := newCandidate(title, description, event.Classify(title, description, ""), event.ParseDateRange(dateText),
			resolveURL(pageURL, imageSrc(card)), sourceURL)
		c.IsFree = freeIfMentioned(card.Text())
		events = append(events, c)
	})

	return events
}
