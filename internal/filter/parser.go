package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/artsea-london/artsea/internal/event"
)

// Parse builds a Filter from a query string of space-separated tokens:
//
//	type:<type>       event type, repeatable (type:dance type:music)
//	venue:<slug>      venue slug, repeatable
//	area:<name>       venue area, repeatable
//	from:YYYY-MM-DD   window start
//	to:YYYY-MM-DD     window end
//	free              free entry only
//	available         hide sold-out events
//	<word>            free-text term
func Parse(query string) (*Filter, error) {
	f := NewFilter()

	for _, token := range strings.Fields(query) {
		key, value, hasValue := strings.Cut(token, ":")
		if !hasValue {
			switch strings.ToLower(token) {
			case "free":
				f.FreeOnly = true
			case "available":
				f.HideSoldOut = true
			default:
				f.Terms = append(f.Terms, token)
			}
			continue
		}

		if value == "" {
			return nil, fmt.Errorf("empty value for %q", key)
		}

		switch strings.ToLower(key) {
		case "type":
			t, err := event.ParseType(value)
			if err != nil {
				return nil, err
			}
			f.Types = append(f.Types, t)
		case "venue":
			f.Venues = append(f.Venues, strings.ToLower(value))
		case "area":
			f.Areas = append(f.Areas, value)
		case "from":
			d, err := event.ParseISODate(value)
			if err != nil {
				return nil, fmt.Errorf("invalid from date: %w", err)
			}
			f.From = d
		case "to":
			d, err := event.ParseISODate(value)
			if err != nil {
				return nil, fmt.Errorf("invalid to date: %w", err)
			}
			f.To = d
		default:
			// "http://..." and similar are search terms, not keys
			f.Terms = append(f.Terms, token)
		}
	}

	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, fmt.Errorf("to date %s is before from date %s", f.To, f.From)
	}
	return f, nil
}

var (
	dayRangePattern   = regexp.MustCompile(`(?i)^([a-z]+)\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	monthRangePattern = regexp.MustCompile(`(?i)^([a-z]+)\s+(\d{1,2})\s*-\s*([a-z]+)\s+(\d{1,2})$`)
	monthPattern      = regexp.MustCompile(`(?i)^([a-z]+)$`)
)

// ParseDateRange parses a loose date window into inclusive From/To dates.
//
// Supported formats:
//   - "Mar 1-15" or "March 1-15" - same month, different days
//   - "March 1 - April 15" - different months
//   - "March" - entire month
//
// The year is inferred: a month earlier than the current one means next
// year, and a range whose end month precedes its start month crosses into
// the following year.
func ParseDateRange(input string) (event.Date, event.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return event.Date{}, event.Date{}, fmt.Errorf("date range cannot be empty")
	}

	if m := dayRangePattern.FindStringSubmatch(input); m != nil {
		month, err := parseMonth(m[1])
		if err != nil {
			return event.Date{}, event.Date{}, err
		}
		day1, err := parseDay(m[2])
		if err != nil {
			return event.Date{}, event.Date{}, err
		}
		day2, err := parseDay(m[3])
		if err != nil {
			return event.Date{}, event.Date{}, err
		}

		year := yearForMonth(month)
		from := event.NewDate(year, month, day1)
		to := event.NewDate(year, month, day2)
		if from.IsZero() || to.IsZero() {
			return event.Date{}, event.Date{}, fmt.Errorf("no such date in %s", month)
		}
		if from.After(to) {
			return event.Date{}, event.Date{}, fmt.Errorf("start date must be before end date")
		}
		return from, to, nil
	}

	if m := monthRangePattern.FindStringSubmatch(input); m != nil {
		month1, err := parseMonth(m[1])
		if err != nil {
			return event.Date{}, event.Date{}, err
		}
		day1, err := parseDay(m[2])
		if err != nil {
			return event.Date{}, event.Date{}, err
		}
		month2, err := parseMonth(m[3])
		if err != nil {
			return event.Date{}, event.Date{}, err
		}
		day2, err := parseDay(m[4])
		if err != nil {
			return event.Date{}, event.Date{}, err
		}

		year1 := yearForMonth(month1)
		year2 := year1
		if month2 < month1 {
			year2++
		}

		from := event.NewDate(year1, month1, day1)
		to := event.NewDate(year2, month2, day2)
		if from.IsZero() || to.IsZero() {
			return event.Date{}, event.Date{}, fmt.Errorf("no such date in %s", input)
		}
		if from.After(to) {
			return event.Date{}, event.Date{}, fmt.Errorf("start date must be before end date")
		}
		return from, to, nil
	}

	if m := monthPattern.FindStringSubmatch(input); m != nil {
		month, err := parseMonth(m[1])
		if err != nil {
			return event.Date{}, event.Date{}, err
		}
		year := yearForMonth(month)
		from := event.NewDate(year, month, 1)
		// day 0 of the next month is the last day of this one
		to := event.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
		return from, to, nil
	}

	return event.Date{}, event.Date{}, fmt.Errorf("invalid date range format. Use 'Mar 1-15', 'March 1 - April 15', or 'March'")
}

func parseMonth(name string) (time.Month, error) {
	m, ok := event.ParseMonth(name)
	if !ok {
		return 0, fmt.Errorf("invalid month: %s", name)
	}
	return m, nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

// yearForMonth returns this year, or next year when month has already passed
func yearForMonth(month time.Month) int {
	today := event.Today().Time()
	year := today.Year()
	if month < today.Month() {
		year++
	}
	return year
}
