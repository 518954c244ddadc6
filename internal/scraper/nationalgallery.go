package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// NationalGallery scrapes the static exhibitions page and then the events
// card endpoint the listing loads over AJAX
type NationalGallery struct {
	base
}

func (s *NationalGallery) Scrape(ctx context.Context) ([]event.Candidate, error) {
	seen := make(seenSet)

	exhibitionsURL := s.url("/exhibitions")
	doc, err := s.page(ctx, exhibitionsURL)
	if err != nil {
		return nil, err
	}
	events := s.parseExhibitions(doc, exhibitionsURL, seen)

	if err := s.fetcher.Delay(ctx); err != nil {
		return events, err
	}

	cardsURL := s.url("/umbraco/Surface/Events/EventsCards")
	doc, err = s.page(ctx, cardsURL)
	if err != nil {
		return events, err
	}
	return append(events, s.parseEvents(doc, cardsURL, seen)...), nil
}

func (s *NationalGallery) parseExhibitions(doc *goquery.Document, pageURL string, seen seenSet) []event.Candidate {
	events := make([]event.Candidate, 0)

	doc.Find("article.exhibition-card").Each(func(i int, card *goquery.Selection) {
		title := textOf(card, "h3.exhibition-heading")
		if len(title) < minTitleLength {
			return
		}

		href, _ := card.Find("a.card-link").Attr("href")
		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		description := textOf(card, ".exhibition-description")
		style, _ := card.Find(".card-img-top > div[style]").Attr("style")
		payment, _ := card.Attr("data-payment-type")

		c := newCandidate(title, description, event.Classify(title, description, ""),
			event.ParseDateRange(textOf(card, ".exhibition-date")),
			resolveURL(pageURL, backgroundImage(style)), sourceURL)
		c.IsFree = freeIfMentioned(payment)
		events = append(events, c)
	})

	return events
}

func (s *NationalGallery) parseEvents(doc *goquery.Document, pageURL string, seen seenSet) []event.Candidate {
	events := make([]event.Candidate, 0)

	doc.Find("li.ng-card-wrap").Each(func(i int, card *goquery.Selection) {
		title, _ := card.Find("article.ng-event-card").Attr("data-dl-name")
		if strings.TrimSpace(title) == "" {
			title = textOf(card, "h3.trimmed")
		}
		title = strings.TrimSpace(title)
		if len(title) < minTitleLength {
			return
		}

		href, _ := card.Find("a.dl-product-link").Attr("href")
		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		style, _ := card.Find(".thumbnail-inner > div[style]").Attr("style")
		category := textOf(card, ".category")

		c := newCandidate(title, "", event.Classify(title, "", category),
			event.ParseDateRange(textOf(card, ".date")),
			resolveURL(pageURL, backgroundImage(style)), sourceURL)
		if strings.EqualFold(textOf(card, ".cost"), "free") {
			c.IsFree = event.Flag(true)
		}
		events = append(events, c)
	})

	return events
}
