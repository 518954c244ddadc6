package scraper

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/artsea-london/artsea/internal/event"
)

// somersetEdgePaths are the payload shapes the listing has been seen to use
var somersetEdgePaths = []string{
	"data.page.items.edges",
	"page.items.edges",
	"props.pageProps.data.page.items.edges",
}

// somersetEdgesPattern carves the edges array out of a script that is not pure JSON
var somersetEdgesPattern = regexp.MustCompile(`"items"\s*:\s*\{\s*"edges"\s*:\s*(\[[\s\S]*?\])\s*,\s*"pageInfo"`)

// SomersetHouse reads the GraphQL page payload embedded in the what's-on page,
// falling back to the page's links when no payload is found
type SomersetHouse struct {
	base
}

func (s *SomersetHouse) Scrape(ctx context.Context) ([]event.Candidate, error) {
	pageURL := s.url("/whats-on")
	doc, err := s.page(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	seen := make(seenSet)
	if events := s.parsePayload(doc, pageURL, seen); len(events) > 0 {
		return events, nil
	}
	return s.parseLinks(doc, pageURL, seen), nil
}

// edges finds the edges array in a script body, or ok=false
func somersetEdges(content string) (gjson.Result, bool) {
	if gjson.Valid(content) {
		for _, path := range somersetEdgePaths {
			if edges := gjson.Get(content, path); edges.IsArray() {
				return edges, true
			}
		}
	}

	if m := somersetEdgesPattern.FindStringSubmatch(content); m != nil && gjson.Valid(m[1]) {
		return gjson.Parse(m[1]), true
	}
	return gjson.Result{}, false
}

func (s *SomersetHouse) parsePayload(doc *goquery.Document, pageURL string, seen seenSet) []event.Candidate {
	var edges gjson.Result
	doc.Find("script").EachWithBreak(func(i int, script *goquery.Selection) bool {
		content := script.Text()
		if !strings.Contains(content, `"EventDetailPage"`) {
			return true
		}
		found, ok := somersetEdges(content)
		if ok {
			edges = found
		}
		return !ok
	})

	events := make([]event.Candidate, 0)
	edges.ForEach(func(_, edge gjson.Result) bool {
		node := edge.Get("node")
		title := node.Get("title").String()
		link := node.Get("url").String()
		if strings.TrimSpace(title) == "" || link == "" {
			return true
		}

		sourceURL := resolveURL(pageURL, link)
		if sourceURL == "" || !seen.add(sourceURL) {
			return true
		}

		// ISO dates beat the human-readable dateText
		dates := event.DateRange{
			Start: event.ParseSingleDate(node.Get("dateStart").String()),
			End:   event.ParseSingleDate(node.Get("dateEnd").String()),
		}
		if dates.Start.IsZero() {
			if text := node.Get("dateText").String(); text != "" {
				dates = event.ParseDateRange(text)
			}
		}

		var categories []string
		for _, t := range node.Get("eventTypes.#.title").Array() {
			categories = append(categories, t.String())
		}

		c := newCandidate(title, "", event.Classify(title, "", strings.Join(categories, " ")), dates,
			resolveURL(pageURL, node.Get("listingImage.src").String()), sourceURL)
		if node.Get("priceFree").Bool() {
			c.IsFree = event.Flag(true)
		}
		events = append(events, c)
		return true
	})

	return events
}

// parseLinks is the last resort: bare what's-on links typed as visual arts, starting today
func (s *SomersetHouse) parseLinks(doc *goquery.Document, pageURL string, seen seenSet) []event.Candidate {
	events := make([]event.Candidate, 0)

	doc.Find(`a[href*="/whats-on/"]`).Each(func(i int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if href == "" || href == "/whats-on" || href == "/whats-on/" {
			return
		}

		title := textOf(link, "h3")
		if title == "" {
			title = event.CleanText(link.Text())
		}
		if len(title) < minTitleLength || len(title) > event.MaxTitleLength {
			return
		}

		sourceURL := resolveURL(pageURL, href)
		if sourceURL == "" || !seen.add(sourceURL) {
			return
		}

		events = append(events, newCandidate(title, "", event.TypeVisualArts, event.DateRange{}, "", sourceURL))
	})

	return events
}
