package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artsea-london/artsea/internal/event"
)

// minTitleLength filters out icon links and stray labels picked up by broad selectors
const minTitleLength = 3

// Scraper extracts event candidates for one venue
type Scraper interface {
	// Venue returns the slug of the venue the candidates belong to
	Venue() string
	// Scrape fetches the venue's listings. A non-nil error may accompany
	// partial results when a later page fails.
	Scrape(ctx context.Context) ([]event.Candidate, error)
}

// Unsupported is implemented by extractors that deliberately produce nothing
type Unsupported interface {
	Reason() string
}

// Fetcher is the subset of the fetch client used by extractors
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
	FetchJSON(ctx context.Context, url string) ([]byte, error)
	Delay(ctx context.Context) error
}

// base holds what every extractor needs
type base struct {
	venue   string
	baseURL string
	fetcher Fetcher
}

func (b base) Venue() string {
	return b.venue
}

// url resolves a path against the venue's base URL
func (b base) url(path string) string {
	return resolveURL(b.baseURL, path)
}

// page fetches and parses an HTML page
func (b base) page(ctx context.Context, pageURL string) (*goquery.Document, error) {
	html, err := b.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", pageURL, err)
	}
	return doc, nil
}

// resolveURL makes href absolute relative to baseURL. Returns "" if either is unparseable.
func resolveURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// seenSet deduplicates candidates by source URL within a single Scrape call
type seenSet map[string]bool

// add records u and reports whether it was new
func (s seenSet) add(u string) bool {
	if s[u] {
		return false
	}
	s[u] = true
	return true
}

// textOf returns the trimmed text of the first element matching selector
func textOf(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// cardTitle returns the first heading-like text in a card, falling back to
// the first line of the card's own text
func cardTitle(sel *goquery.Selection, selector string) string {
	if title := textOf(sel, selector); title != "" {
		return title
	}
	return event.FirstLine(sel.Text())
}

// imageSrc returns the src or lazy-loaded data-src of the first img in sel
func imageSrc(sel *goquery.Selection) string {
	img := sel.Find("img").First()
	if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
		return src
	}
	src, _ := img.Attr("data-src")
	return src
}

var backgroundImagePattern = regexp.MustCompile(`url\(\s*['"]?([^'")\s]+)['"]?\s*\)`)

// backgroundImage extracts the URL from an inline "background-image: url(...)" style
func backgroundImage(style string) string {
	if m := backgroundImagePattern.FindStringSubmatch(style); m != nil {
		return m[1]
	}
	return ""
}

// freeIfMentioned returns true when text mentions "free", otherwise unknown
func freeIfMentioned(text string) *bool {
	if strings.Contains(strings.ToLower(text), "free") {
		return event.Flag(true)
	}
	return nil
}

// newCandidate builds a candidate with the shared field contract applied.
// A zero start date is replaced by today.
func newCandidate(title, description string, typ event.Type, dates event.DateRange, imageURL, sourceURL string) event.Candidate {
	c := event.NewCandidate(title, description, typ, sourceURL)
	c.StartDate = event.StartOrToday(dates.Start)
	c.EndDate = dates.End
	c.ImageURL = imageURL
	return c
}
