package scraper

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/artsea-london/artsea/internal/event"
)

// dataLayerPattern captures the object literal pushed to the analytics data layer
var dataLayerPattern = regexp.MustCompile(`dataLayer\.push\((\{[\s\S]*?\})\)`)

// VA scrapes the V&A what's-on page. The analytics product impressions are
// preferred; the HTML listing is the fallback when they are absent or malformed.
type VA struct {
	base
}

func (s *VA) Scrape(ctx context.Context) ([]event.Candidate, error) {
	pageURL := s.url("/whatson")
	doc, err := s.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if events := s.parseDataLayer(doc); len(events) > 0 {
		return events, nil
	}
	return s.parseHTML(doc, pageURL), nil
}

// parseDataLayer reads ecommerce.impressions from any dataLayer.push call.
// Impressions carry no dates, so every item starts today.
func (s *VA) parseDataLayer(doc *goquery.Document) []event.Candidate {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	doc.Find("script").Each(func(i int, script *goquery.Selection) {
		content := script.Text()
		if !strings.Contains(content, "dataLayer") {
			return
		}

		for _, m := range dataLayerPattern.FindAllStringSubmatch(content, -1) {
			if !gjson.Valid(m[1]) {
				continue
			}
			impressions := gjson.Get(m[1], "ecommerce.impressions")
			if !impressions.IsArray() {
				continue
			}

			impressions.ForEach(func(_, item gjson.Result) bool {
				id := strings.TrimSpace(item.Get("id").String())
				if id == "" {
					return true
				}
				title := item.Get("name").String()
				if strings.TrimSpace(title) == "" {
					title = "Untitled"
				}

				sourceURL := s.url("/event/" + url.PathEscape(id))
				if !seen.add(sourceURL) {
					return true
				}

				typ := event.Classify(title, "", item.Get("category").String())
				events = append(events, newCandidate(title, "", typ, event.DateRange{}, "", sourceURL))
				return true
			})
		}
	})

	return events
}

// parseHTML walks event and exhibition links. Items without date text start
// today; items whose date text cannot be parsed are dropped.
func (s *VA) parseHTML(doc *goquery.Document, pageURL string) []event.Candidate {
	events := make([]event.Candidate, 0)
	seen := make(seenSet)

	doc.Find("a[href*='/event/'], a[href*='/exhibitions/']").Each(func(i int, card *goquery.Selection) {
		href, _ := card.Attr("href")
		if href == "" {
			return
		}

		title := cardTitle(card, "h2, h3, [class*='title']")
		if len(title) < minTitleLength {
			return
		}

		dateText := strings.TrimSpace(card.Find("[class*='date'], time").Text())
		dates := event.ParseDateRange(dateText)
		if dateText != "" && dates.Start.IsZero() {
			return
		}

		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		description := textOf(card, "[class*='description'], p")

		c := newCandidate(title, description, event.Classify(title, description, ""), dates,
			resolveURL(pageURL, imageSrc(card)), sourceURL)
		c.IsFree = freeIfMentioned(card.Text())
		events = append(events, c)
	})

	return events
}
