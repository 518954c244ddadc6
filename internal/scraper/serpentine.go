package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// maxPages bounds every paginated listing
const maxPages = 5

// Serpentine scrapes the Serpentine Galleries listing, following the
// WordPress rel="next" link across pages
type Serpentine struct {
	base
}

func (s *Serpentine) Scrape(ctx context.Context) ([]event.Candidate, error) {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	pageURL := s.url("/whats-on/")
	for page := 0; pageURL != "" && page < maxPages; page++ {
		if page > 0 {
			if err := s.fetcher.Delay(ctx); err != nil {
				return events, err
			}
		}

		doc, err := s.page(ctx, pageURL)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			return events, err
		}

		cards := doc.Find("section.teaser")
		if cards.Length() == 0 {
			break
		}
		events = append(events, s.parse(cards, pageURL, seen)...)

		next, _ := doc.Find(`link[rel="next"]`).Attr("href")
		pageURL = resolveURL(pageURL, next)
	}

	return events, nil
}

func (s *Serpentine) parse(cards *goquery.Selection, pageURL string, seen seenSet) []event.Candidate {
	events := make([]event.Candidate, 0, cards.Length())

	cards.Each(func(i int, card *goquery.Selection) {
		link := card.Find("h3.teaser__title a").First()
		title := strings.TrimSpace(link.Text())
		if len(title) < minTitleLength {
			return
		}

		href, _ := link.Attr("href")
		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		var categories []string
		card.Find(".teaser__pretitle a").Each(func(j int, a *goquery.Selection) {
			categories = append(categories, strings.TrimSpace(a.Text()))
		})

		dateText := strings.TrimSpace(card.Find(".meta__row").Last().Text())
		var dates event.DateRange
		if !event.IsOngoing(dateText) {
			dates = event.ParseDateRange(dateText)
		}

		description := textOf(card, "p.teaser__text")
		image, _ := card.Find("img.teaser__img").Attr("src")

		typ := event.Classify(title, description, strings.Join(categories, " "))
		events = append(events, newCandidate(title, description, typ, dates, resolveURL(pageURL, image), sourceURL))
	})

	return events
}
