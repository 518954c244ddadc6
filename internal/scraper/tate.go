package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// Tate scrapes the Tate what's-on listing filtered to Tate Modern
type Tate struct {
	base
}

func (s *Tate) Scrape(ctx context.Context) ([]event.Candidate, error) {
	pageURL := s.url("/whats-on?gallery=tate-modern")
	doc, err := s.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return s.parse(doc, pageURL), nil
}

func (s *Tate) parse(doc *goquery.Document, pageURL string) []event.Candidate {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	doc.Find("a[href*='/whats-on/tate-modern/'], a[href*='/whats-on/tate-britain/']").Each(func(i int, card *goquery.Selection) {
		href, _ := card.Attr("href")
		if href == "" {
			return
		}
		// filter and navigation links carry a query string
		if strings.Contains(href, "?") && !strings.Contains(href, "/exhibition/") {
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

		dateText := strings.TrimSpace(card.Find("[class*='date'], time, [class*='subtitle']").Text())
		description := strings.TrimSpace(card.Find("[class*='description'], [class*='summary']").Text())

		c := newCandidate(title, description, event.Classify(title, description, ""), event.ParseDateRange(dateText),
			resolveURL(pageURL, imageSrc(card)), sourceURL)
		c.IsFree = tateAdmission(card.Text())
		events = append(events, c)
	})

	return events
}

// tateAdmission reads "free" as free and "member" (member-priced) as paid
func tateAdmission(text string) *bool {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "free"):
		return event.Flag(true)
	case strings.Contains(text, "member"):
		return event.Flag(false)
	default:
		return nil
	}
}
