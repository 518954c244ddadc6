package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// TimeOut scrapes a venue's page on TimeOut London. It stands in for venues
// whose own sites refuse automated requests.
type TimeOut struct {
	base
	path string
}

func (s *TimeOut) Scrape(ctx context.Context) ([]event.Candidate, error) {
	pageURL := s.url(s.path)
	doc, err := s.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return s.parse(doc, pageURL), nil
}

func (s *TimeOut) parse(doc *goquery.Document, pageURL string) []event.Candidate {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	doc.Find(`article[data-testid="tile-venue-event_testID"]`).Each(func(i int, card *goquery.Selection) {
		title := textOf(card, "h3")
		if len(title) < minTitleLength {
			return
		}

		href, _ := card.Find(`a[data-testid="tile-link_testID"]`).First().Attr("href")
		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		image, _ := card.Find("picture img").First().Attr("src")
		description := strings.TrimSpace(card.Find(`[data-testid="summary_testID"]`).Text())
		// tag classes carry a build hash suffix
		category := strings.TrimSpace(card.Find("li[class*='_tag_'] span").Text())

		c := newCandidate(title, description, event.Classify(title, description, category),
			timeOutDates(card.Find("time")), resolveURL(pageURL, image), sourceURL)
		events = append(events, c)
	})

	return events
}

// timeOutDates reads <time datetime> elements: two give a range, a single
// "Until" element gives today..date, a single other element gives a start
func timeOutDates(times *goquery.Selection) event.DateRange {
	switch {
	case times.Length() >= 2:
		start, _ := times.Eq(0).Attr("datetime")
		end, _ := times.Eq(1).Attr("datetime")
		return event.DateRange{Start: event.ParseSingleDate(start), End: event.ParseSingleDate(end)}
	case times.Length() == 1:
		dt, _ := times.Attr("datetime")
		d := event.ParseSingleDate(dt)
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(times.Text())), "until") {
			return event.DateRange{Start: event.Today(), End: d}
		}
		return event.DateRange{Start: d}
	default:
		return event.DateRange{}
	}
}
