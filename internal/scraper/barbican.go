package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// Barbican scrapes the Barbican Centre what's-on listing
type Barbican struct {
	base
}

// Scrape fetches the listing page. Cards without a parseable date are dropped.
func (s *Barbican) Scrape(ctx context.Context) ([]event.Candidate, error) {
	pageURL := s.url("/whats-on")
	doc, err := s.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return s.parse(doc, pageURL), nil
}

func (s *Barbican) parse(doc *goquery.Document, pageURL string) []event.Candidate {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	doc.Find("a[href*='/whats-on/']").Each(func(i int, card *goquery.Selection) {
		href, _ := card.Attr("href")
		if href == "" || href == "/whats-on" || href == "/whats-on/" {
			return
		}

		title := cardTitle(card, "h2, h3, .title, [class*='title']")
		if len(title) < minTitleLength {
			return
		}

		dateText := strings.TrimSpace(card.Find("[class*='date'], time, .subtitle").Text())
		if dateText == "" {
			dateText = textOf(card, "p")
		}
		dates := event.ParseDateRange(dateText)
		if dates.Start.IsZero() {
			return
		}

		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		description := strings.TrimSpace(card.Find("[class*='description'], [class*='summary'], p").Last().Text())

		c := newCandidate(title, description, event.Classify(title, description, ""), dates,
			resolveURL(pageURL, imageSrc(card)), sourceURL)
		c.IsFree = freeIfMentioned(card.Text())
		events = append(events, c)
	})

	return events
}
