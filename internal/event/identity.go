package event

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

const (
	// FingerprintLength is the number of hex characters kept from the source URL digest
	FingerprintLength = 16
	MaxSlugLength     = 80
	fallbackSlug      = "event"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// Fingerprint creates the reconciliation key for an event from its source URL only,
// so edits to title or dates on the venue site update the same record.
func Fingerprint(sourceURL string) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return hex.EncodeToString(sum[:])[:FingerprintLength]
}

// Slugify converts a title into a lower-case, hyphenated, URL-safe identifier
// of at most MaxSlugLength characters
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	if len(s) > MaxSlugLength {
		s = s[:MaxSlugLength]
	}
	return strings.Trim(s, "-")
}

// SlugSet tracks slugs already in use and hands out collision-free ones
type SlugSet map[string]struct{}

// NewSlugSet creates a set pre-populated with existing slugs
func NewSlugSet(existing []string) SlugSet {
	set := make(SlugSet, len(existing))
	for _, s := range existing {
		set[s] = struct{}{}
	}
	return set
}

// Has reports whether slug is taken
func (s SlugSet) Has(slug string) bool {
	_, ok := s[slug]
	return ok
}

// Claim returns base if it is free, otherwise the first free "base-2", "base-3", ...
// The returned slug is recorded as taken.
func (s SlugSet) Claim(base string) string {
	if base == "" {
		base = fallbackSlug
	}

	slug := base
	// at most len(s)+1 attempts: each taken candidate is a distinct member of s
	for i := 2; s.Has(slug); i++ {
		slug = base + "-" + strconv.Itoa(i)
	}

	s[slug] = struct{}{}
	return slug
}
