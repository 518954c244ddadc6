package scraper

import (
	"fmt"
	"sort"
)

// Kind names an extractor implementation. It is what the venue's
// scraper_module column stores.
type Kind string

const (
	KindBarbican        Kind = "barbican"
	KindVA              Kind = "va"
	KindTate            Kind = "tate"
	KindSouthbank       Kind = "southbank"
	KindSerpentine      Kind = "serpentine"
	KindNationalGallery Kind = "national-gallery"
	KindDesignMuseum    Kind = "design-museum"
	KindSaatchi         Kind = "saatchi"
	KindSomersetHouse   Kind = "somerset-house"
	KindWhitechapel     Kind = "whitechapel"
	KindTimeOut         Kind = "timeout"
	KindUnsupported     Kind = "unsupported"
)

// defaultBaseURLs is where each kind's pages live unless overridden
var defaultBaseURLs = map[Kind]string{
	KindBarbican:        "https://www.barbican.org.uk",
	KindVA:              "https://www.vam.ac.uk",
	KindTate:            "https://www.tate.org.uk",
	KindSouthbank:       "https://www.southbankcentre.co.uk",
	KindSerpentine:      "https://www.serpentinegalleries.org",
	KindNationalGallery: "https://www.nationalgallery.org.uk",
	KindDesignMuseum:    "https://designmuseum.org",
	KindSaatchi:         "https://www.saatchigallery.com",
	KindSomersetHouse:   "https://www.somersethouse.org.uk",
	KindWhitechapel:     "https://www.whitechapelgallery.org",
	KindTimeOut:         "https://www.timeout.com",
}

// Spec describes which extractor a venue uses
type Spec struct {
	Venue   string // venue slug
	Kind    Kind
	BaseURL string // optional override of the kind's default site
	Path    string // TimeOut venue page path, e.g. /london/art/hayward-gallery
	Reason  string // why an unsupported venue is not scraped
}

// Build creates the extractor for spec
func Build(spec Spec, f Fetcher) (Scraper, error) {
	if spec.Venue == "" {
		return nil, fmt.Errorf("scraper spec has no venue slug")
	}

	baseURL := spec.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[spec.Kind]
	}
	b := base{venue: spec.Venue, baseURL: baseURL, fetcher: f}

	switch spec.Kind {
	case KindBarbican:
		return &Barbican{base: b}, nil
	case KindVA:
		return &VA{base: b}, nil
	case KindTate:
		return &Tate{base: b}, nil
	case KindSouthbank:
		return &Southbank{base: b}, nil
	case KindSerpentine:
		return &Serpentine{base: b}, nil
	case KindNationalGallery:
		return &NationalGallery{base: b}, nil
	case KindDesignMuseum:
		return &DesignMuseum{base: b}, nil
	case KindSaatchi:
		return &Saatchi{base: b}, nil
	case KindSomersetHouse:
		return &SomersetHouse{base: b}, nil
	case KindWhitechapel:
		return &Whitechapel{base: b}, nil
	case KindTimeOut:
		if spec.Path == "" {
			return nil, fmt.Errorf("venue %s: timeout extractor requires a path", spec.Venue)
		}
		return &TimeOut{base: b, path: spec.Path}, nil
	case KindUnsupported:
		return &Unavailable{venue: spec.Venue, reason: spec.Reason}, nil
	default:
		return nil, fmt.Errorf("venue %s: unknown scraper kind %q", spec.Venue, spec.Kind)
	}
}

// Kinds returns every known extractor kind, sorted
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(defaultBaseURLs)+1)
	for k := range defaultBaseURLs {
		kinds = append(kinds, k)
	}
	kinds = append(kinds, KindUnsupported)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
