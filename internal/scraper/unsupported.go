package scraper

import (
	"context"

	"github.com/artsea-london/artsea/internal/event"
)

const defaultUnsupportedReason = "site blocks automated access"

// Unavailable is the no-op extractor for venues that cannot be scraped
type Unavailable struct {
	venue  string
	reason string
}

func (u *Unavailable) Venue() string {
	return u.venue
}

// Scrape never fetches anything
func (u *Unavailable) Scrape(ctx context.Context) ([]event.Candidate, error) {
	return nil, nil
}

// Reason explains why the venue is skipped
func (u *Unavailable) Reason() string {
	if u.reason == "" {
		return defaultUnsupportedReason
	}
	return u.reason
}
