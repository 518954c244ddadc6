package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// Whitechapel scrapes the Whitechapel Gallery exhibitions page, then its events page
type Whitechapel struct {
	base
}

func (s *Whitechapel) Scrape(ctx context.Context) ([]event.Candidate, error) {
	seen := make(seenSet)

	exhibitionsURL := s.url("/exhibitions/")
	doc, err := s.page(ctx, exhibitionsURL)
	if err != nil {
		return nil, err
	}
	events := s.parseExhibitions(doc, exhibitionsURL, seen)

	if err := s.fetcher.Delay(ctx); err != nil {
		return events, err
	}

	eventsURL := s.url("/events-2-2/")
	doc, err = s.page(ctx, eventsURL)
	if err != nil {
		return events, err
	}
	return append(events, s.parseEvents(doc, eventsURL, seen)...), nil
}

// parseExhibitions types everything as visual arts; the cards carry no category
func (s *Whitechapel) parseExhibitions(doc *goquery.Document, pageURL string, seen seenSet) []event.Candidate {
	events := make([]event.Candidate, 0)

	doc.Find("div.mediaBlock").Each(func(i int, card *goquery.Selection) {
		link := card.Find("h4.category_name > a").First()
		if link.Length() == 0 {
			link = card.Find("h4 > a").First()
		}
		title := event.CleanText(link.Text())
		if len(title) < minTitleLength {
			return
		}

		href, _ := link.Attr("href")
		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		dateText := event.CleanText(card.Find("p").Last().Text())
		image, _ := card.Find("img").Attr("src")

		events = append(events, newCandidate(title, "", event.TypeVisualArts, event.ParseDateRange(dateText),
			resolveURL(pageURL, image), sourceURL))
	})

	return events
}

func (s *Whitechapel) parseEvents(doc *goquery.Document, pageURL string, seen seenSet) []event.Candidate {
	events := make([]event.Candidate, 0)

	doc.Find("#AJAXcurrentEvents div.mediaBlock").Each(func(i int, card *goquery.Selection) {
		link := card.Find("p.category_name--new > a").First()
		title := event.CleanText(link.Text())
		if len(title) < minTitleLength {
			return
		}

		href, _ := link.Attr("href")
		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		description := textOf(card, "p.category_meta_title")
		category := textOf(card, "p.category_orange")
		image, _ := card.Find("img").Attr("src")

		events = append(events, newCandidate(title, description, event.Classify(title, description, category),
			event.ParseDateRange(textOf(card, "p.category_date")), resolveURL(pageURL, image), sourceURL))
	})

	return events
}
