package filter

import (
	"testing"
	"time"

	"github.com/artsea-london/artsea/internal/event"
	"github.com/artsea-london/artsea/internal/store"
)

func date(month time.Month, day int) event.Date {
	return event.NewDate(2026, month, day)
}

var (
	tate     = &store.Venue{Name: "Tate Modern", Slug: "tate-modern", Area: "South"}
	barbican = &store.Venue{Name: "Barbican Centre", Slug: "barbican-centre", Area: "Central"}
)

func testEvents() []store.Event {
	return []store.Event{
		{
			Title:       "Noguchi: Sculpture and Design",
			Description: "A retrospective of the sculptor's work",
			EventType:   event.TypeVisualArts,
			StartDate:   date(time.March, 15),
			EndDate:     date(time.June, 20),
			Venue:       barbican,
		},
		{
			Title:     "Lunchtime Concert",
			EventType: event.TypeMusic,
			StartDate: date(time.February, 17),
			IsFree:    event.Flag(true),
			Venue:     barbican,
		},
		{
			Title:     "Late at Tate: Movement",
			EventType: event.TypeDance,
			StartDate: date(time.April, 3),
			IsFree:    event.Flag(false),
			IsSoldOut: event.Flag(true),
			Venue:     tate,
		},
	}
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty filter", NewFilter(), true},
		{"from date", &Filter{From: date(time.March, 1)}, false},
		{"free only", &Filter{FreeOnly: true}, false},
		{"hide sold out", &Filter{HideSoldOut: true}, false},
		{"terms", &Filter{Terms: []string{"noguchi"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	events := testEvents()
	noguchi, concert, late := &events[0], &events[1], &events[2]

	tests := []struct {
		name   string
		filter *Filter
		event  *store.Event
		want   bool
	}{
		{"empty filter matches all", NewFilter(), late, true},
		{"window overlaps running exhibition", &Filter{From: date(time.May, 1), To: date(time.May, 31)}, noguchi, true},
		{"window after exhibition ends", &Filter{From: date(time.June, 21)}, noguchi, false},
		{"window before exhibition starts", &Filter{To: date(time.March, 14)}, noguchi, false},
		{"window includes last day", &Filter{From: date(time.June, 20)}, noguchi, true},
		{"single day event inside window", &Filter{From: date(time.February, 17), To: date(time.February, 17)}, concert, true},
		{"single day event outside window", &Filter{From: date(time.February, 18)}, concert, false},
		{"type matches", &Filter{Types: []event.Type{event.TypeDance, event.TypeMusic}}, late, true},
		{"type does not match", &Filter{Types: []event.Type{event.TypeFilm}}, late, false},
		{"venue matches", &Filter{Venues: []string{"tate-modern"}}, late, true},
		{"venue does not match", &Filter{Venues: []string{"tate-modern"}}, concert, false},
		{"area case-insensitive", &Filter{Areas: []string{"central"}}, noguchi, true},
		{"area does not match", &Filter{Areas: []string{"east"}}, late, false},
		{"free only keeps free", &Filter{FreeOnly: true}, concert, true},
		{"free only drops unknown", &Filter{FreeOnly: true}, noguchi, false},
		{"free only drops paid", &Filter{FreeOnly: true}, late, false},
		{"hide sold out drops sold out", &Filter{HideSoldOut: true}, late, false},
		{"hide sold out keeps unknown", &Filter{HideSoldOut: true}, noguchi, true},
		{"term in description", &Filter{Terms: []string{"SCULPTOR"}}, noguchi, true},
		{"all terms required", &Filter{Terms: []string{"noguchi", "film"}}, noguchi, false},
		{"criteria combine", &Filter{Types: []event.Type{event.TypeMusic}, FreeOnly: true, Areas: []string{"Central"}}, concert, true},
		{"missing venue never matches area", &Filter{Areas: []string{"South"}}, &store.Event{Title: "Orphan", StartDate: date(time.May, 1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.event); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	events := testEvents()

	if got := NewFilter().Apply(events); len(got) != len(events) {
		t.Errorf("empty filter returned %d events, want %d", len(got), len(events))
	}

	got := (&Filter{Venues: []string{"barbican-centre"}}).Apply(events)
	if len(got) != 2 {
		t.Fatalf("expected 2 barbican events, got %d", len(got))
	}
	if got[0].Title != "Noguchi: Sculpture and Design" || got[1].Title != "Lunchtime Concert" {
		t.Errorf("Apply() changed order: %q, %q", got[0].Title, got[1].Title)
	}

	if got := (&Filter{Types: []event.Type{event.TypeFilm}}).Apply(events); len(got) != 0 {
		t.Errorf("expected no film events, got %d", len(got))
	}
}

func TestFilter_String(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{"empty", NewFilter(), "No active filters"},
		{
			"dates and types",
			&Filter{From: date(time.March, 1), To: date(time.April, 1), Types: []event.Type{event.TypeDance, event.TypeMusic}},
			"From: 1 Mar 2026 | To: 1 Apr 2026 | Types: dance, music",
		},
		{
			"flags and terms",
			&Filter{Areas: []string{"South"}, FreeOnly: true, HideSoldOut: true, Terms: []string{"late", "tate"}},
			"Areas: South | Free only | Hide sold out | Matching: late tate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("Filter.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilter_Clone(t *testing.T) {
	original := &Filter{
		From:   date(time.March, 1),
		Types:  []event.Type{event.TypeDance},
		Venues: []string{"tate-modern"},
		Terms:  []string{"late"},
	}

	clone := original.Clone()
	clone.Types[0] = event.TypeFilm
	clone.Venues = append(clone.Venues, "barbican-centre")
	clone.Terms[0] = "early"

	if original.Types[0] != event.TypeDance {
		t.Error("modifying clone types affected original")
	}
	if len(original.Venues) != 1 {
		t.Error("modifying clone venues affected original")
	}
	if original.Terms[0] != "late" {
		t.Error("modifying clone terms affected original")
	}
	if clone.From != original.From {
		t.Error("clone lost From date")
	}
}
