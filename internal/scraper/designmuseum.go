package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// designMuseumSkip marks listing tiles that link to promos rather than exhibitions
var designMuseumSkip = []string{"past-exhibitions", "support-us", "ticket-mate"}

// DesignMuseum scrapes the Design Museum exhibitions page
type DesignMuseum struct {
	base
}

func (s *DesignMuseum) Scrape(ctx context.Context) ([]event.Candidate, error) {
	pageURL := s.url("/exhibitions")
	doc, err := s.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return s.parse(doc, pageURL), nil
}

func (s *DesignMuseum) parse(doc *goquery.Document, pageURL string) []event.Candidate {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	doc.Find("div.page-item.clearfix").Each(func(i int, card *goquery.Selection) {
		title := textOf(card, "h2")
		if len(title) < minTitleLength {
			return
		}

		href, _ := card.Find("a").First().Attr("href")
		if href == "" {
			return
		}
		for _, skip := range designMuseumSkip {
			if strings.Contains(href, skip) {
				return
			}
		}

		dateText := textOf(card, "time.icon-date")
		if dateText == "" || strings.Contains(dateText, "Permanent Collection") {
			return
		}

		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		dates := event.ParseDateRange(dateText)
		if dates.Start.IsZero() {
			if untilMonth, ok := event.ParseUntilMonth(dateText); ok {
				dates = untilMonth
			}
		}

		description := textOf(card, "div.rich-text")
		style, _ := card.Find("figure").Attr("style")

		c := newCandidate(title, description, event.Classify(title, description, ""), dates,
			resolveURL(pageURL, backgroundImage(style)), sourceURL)
		c.IsFree = freeIfMentioned(dateText)
		events = append(events, c)
	})

	return events
}
