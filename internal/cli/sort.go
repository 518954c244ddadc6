package cli

import (
	"sort"
	"strings"

	"github.com/artsea-london/artsea/internal/store"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByVenue SortOrder = "venue"
	SortByTitle SortOrder = "title"
)

// Valid reports whether o is a known sort order
func (o SortOrder) Valid() bool {
	switch o {
	case SortByDate, SortByVenue, SortByTitle:
		return true
	}
	return false
}

// sortEvents sorts events in place. Ties fall back to date, then title.
func sortEvents(events []store.Event, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(&events[i], &events[j])
		})
	case SortByVenue:
		sort.SliceStable(events, func(i, j int) bool {
			vi, vj := events[i].VenueName(), events[j].VenueName()
			if vi != vj {
				return vi < vj
			}
			return compareByDate(&events[i], &events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByDate(&events[i], &events[j])
		})
	}
}

// compareByDate orders by start date, then end of run, then title
func compareByDate(i, j *store.Event) bool {
	if i.StartDate != j.StartDate {
		return i.StartDate.Before(j.StartDate)
	}
	if li, lj := i.LastDay(), j.LastDay(); li != lj {
		return li.Before(lj)
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
