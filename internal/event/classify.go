package event

import "strings"

type keywordGroup struct {
	typ      Type
	keywords []string
}

// classification order is priority: visual-arts first so that generic
// "art"/"gallery" wording wins over more specific categories
var keywordGroups = []keywordGroup{
	{TypeVisualArts, []string{"exhibition", "gallery", "art", "sculpture", "painting", "photography", "installation"}},
	{TypeTheatre, []string{"theatre", "theater", "play", "drama"}},
	{TypeDance, []string{"dance", "ballet", "choreograph"}},
	{TypeWorkshop, []string{"workshop", "class", "masterclass", "course"}},
	{TypeTalk, []string{"talk", "lecture", "discussion", "conversation", "panel"}},
	{TypeMarket, []string{"market", "fair", "craft"}},
	{TypeFilm, []string{"film", "cinema", "screening", "movie"}},
	{TypeMusic, []string{"concert", "music", "orchestra", "recital", "gig", "dj"}},
}

// DefaultType is returned when no keyword matches. Every source venue is
// primarily a visual-arts institution.
const DefaultType = TypeVisualArts

// Classify infers an event type from its title, description and an optional
// venue-supplied category, using substring keyword matching.
func Classify(title, description, category string) Type {
	text := strings.ToLower(title + " " + description + " " + category)

	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.typ
			}
		}
	}

	return DefaultType
}
