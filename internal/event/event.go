package event

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
)

// Type is one of the fixed event categories shown in the listing
type Type string

const (
	TypeVisualArts Type = "visual-arts"
	TypeTheatre    Type = "theatre"
	TypeDance      Type = "dance"
	TypeWorkshop   Type = "workshop"
	TypeTalk       Type = "talk"
	TypeMarket     Type = "market"
	TypeFilm       Type = "film"
	TypeMusic      Type = "music"
)

// Types lists every event type in classification priority order
var Types = []Type{
	TypeVisualArts,
	TypeTheatre,
	TypeDance,
	TypeWorkshop,
	TypeTalk,
	TypeMarket,
	TypeFilm,
	TypeMusic,
}

// Valid reports whether t is one of the known event types
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// ParseType converts a user-supplied string into a Type
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type: %q", s)
	}
	return t, nil
}

// Candidate is a scraped event that has not been persisted yet
type Candidate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        Type   `json:"event_type"`
	StartDate   Date   `json:"start_date"`
	EndDate     Date   `json:"end_date"` // zero when single-day or open-ended
	ImageURL    string `json:"image_url,omitempty"`
	SourceURL   string `json:"source_url"`
	IsFree      *bool  `json:"is_free"`     // nil when the source does not say
	IsSoldOut   *bool  `json:"is_sold_out"` // nil when the source does not say
}

// NewCandidate creates a Candidate with trimmed, length-capped text fields
func NewCandidate(title, description string, typ Type, sourceURL string) Candidate {
	return Candidate{
		Title:       Truncate(CleanText(title), MaxTitleLength),
		Description: Truncate(CleanText(description), MaxDescriptionLength),
		Type:        typ,
		SourceURL:   strings.TrimSpace(sourceURL),
	}
}

// Validate checks the field contract every extractor must honour
func (c *Candidate) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, errors.New("title is empty"))
	}
	if !c.Type.Valid() {
		errs = append(errs, fmt.Errorf("invalid event type %q", c.Type))
	}
	if c.StartDate.IsZero() {
		errs = append(errs, errors.New("start date is missing"))
	}
	if u, err := url.Parse(c.SourceURL); err != nil || !u.IsAbs() || u.Host == "" {
		errs = append(errs, fmt.Errorf("source url %q is not absolute", c.SourceURL))
	}
	return errors.Join(errs...)
}

// Flag returns a pointer to v, for the tri-state IsFree/IsSoldOut fields
func Flag(v bool) *bool {
	return &v
}
