// Package filter narrows the stored event catalog for listing and export.
//
// A Filter combines independent criteria; an event must satisfy all of them:
//   - Date window (From/To, inclusive); multi-day events match when any day overlaps
//   - Event types
//   - Venue slugs (exact) and areas (case-insensitive)
//   - Free entry only, or hiding sold-out events
//   - Free-text terms matched against title and description
//
// Filters are usually built from a query string:
//
//	f, err := filter.Parse("type:dance area:south from:2026-03-01 free")
//	if err != nil {
//		return err
//	}
//	events = f.Apply(events)
package filter

import (
	"fmt"
	"strings"

	"github.com/artsea-london/artsea/internal/event"
	"github.com/artsea-london/artsea/internal/store"
)

// Filter represents event filtering criteria
type Filter struct {
	// Date window, both ends inclusive. Zero means unbounded.
	From event.Date `json:"from,omitempty"`
	To   event.Date `json:"to,omitempty"`

	Types  []event.Type `json:"types,omitempty"`
	Venues []string     `json:"venues,omitempty"`
	Areas  []string     `json:"areas,omitempty"`

	// FreeOnly keeps events explicitly marked free; unknown is excluded
	FreeOnly bool `json:"free_only,omitempty"`
	// HideSoldOut drops events explicitly marked sold out; unknown is kept
	HideSoldOut bool `json:"hide_sold_out,omitempty"`

	// Terms must all appear in the title or description (case-insensitive)
	Terms []string `json:"terms,omitempty"`
}

// NewFilter creates a filter that matches every event
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty reports whether the filter has no active criteria
func (f *Filter) IsEmpty() bool {
	return f.From.IsZero() &&
		f.To.IsZero() &&
		len(f.Types) == 0 &&
		len(f.Venues) == 0 &&
		len(f.Areas) == 0 &&
		!f.FreeOnly &&
		!f.HideSoldOut &&
		len(f.Terms) == 0
}

// Matches checks if an event matches all active filter criteria
func (f *Filter) Matches(evt *store.Event) bool {
	if f.IsEmpty() {
		return true
	}

	// Date window: the event runs StartDate..LastDay
	if !f.From.IsZero() && evt.LastDay().Before(f.From) {
		return false
	}
	if !f.To.IsZero() && evt.StartDate.After(f.To) {
		return false
	}

	if len(f.Types) > 0 {
		matched := false
		for _, t := range f.Types {
			if evt.EventType == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Venues) > 0 && !containsFold(f.Venues, evt.VenueSlug()) {
		return false
	}

	if len(f.Areas) > 0 {
		area := ""
		if evt.Venue != nil {
			area = evt.Venue.Area
		}
		if !containsFold(f.Areas, area) {
			return false
		}
	}

	if f.FreeOnly && (evt.IsFree == nil || !*evt.IsFree) {
		return false
	}

	if f.HideSoldOut && evt.IsSoldOut != nil && *evt.IsSoldOut {
		return false
	}

	if len(f.Terms) > 0 {
		text := strings.ToLower(evt.Title + " " + evt.Description)
		for _, term := range f.Terms {
			if !strings.Contains(text, strings.ToLower(term)) {
				return false
			}
		}
	}

	return true
}

// Apply returns the events that match. An empty filter returns events unchanged.
func (f *Filter) Apply(events []store.Event) []store.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]store.Event, 0, len(events))
	for i := range events {
		if f.Matches(&events[i]) {
			filtered = append(filtered, events[i])
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "From: 1 Mar 2026 | Types: dance, music | Free only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if !f.From.IsZero() {
		parts = append(parts, fmt.Sprintf("From: %s", f.From.Time().Format("2 Jan 2006")))
	}
	if !f.To.IsZero() {
		parts = append(parts, fmt.Sprintf("To: %s", f.To.Time().Format("2 Jan 2006")))
	}
	if len(f.Types) > 0 {
		names := make([]string, len(f.Types))
		for i, t := range f.Types {
			names[i] = string(t)
		}
		parts = append(parts, fmt.Sprintf("Types: %s", strings.Join(names, ", ")))
	}
	if len(f.Venues) > 0 {
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(f.Venues, ", ")))
	}
	if len(f.Areas) > 0 {
		parts = append(parts, fmt.Sprintf("Areas: %s", strings.Join(f.Areas, ", ")))
	}
	if f.FreeOnly {
		parts = append(parts, "Free only")
	}
	if f.HideSoldOut {
		parts = append(parts, "Hide sold out")
	}
	if len(f.Terms) > 0 {
		parts = append(parts, fmt.Sprintf("Matching: %s", strings.Join(f.Terms, " ")))
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter
func (f *Filter) Clone() *Filter {
	clone := *f
	clone.Types = append([]event.Type(nil), f.Types...)
	clone.Venues = append([]string(nil), f.Venues...)
	clone.Areas = append([]string(nil), f.Areas...)
	clone.Terms = append([]string(nil), f.Terms...)
	return &clone
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
