package event

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// CleanText trims s and collapses internal whitespace runs to single spaces
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most max runes
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}

// StripHTML removes tags from an HTML fragment and decodes its entities,
// e.g. WordPress "rendered" fields like "<p>Caf&eacute; &#8211; Talks</p>"
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return CleanText(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CleanText(fragment)
	}
	return CleanText(doc.Text())
}

// FirstLine returns the first non-empty trimmed line of s
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
