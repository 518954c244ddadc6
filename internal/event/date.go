package event

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Now is the clock used for "today" placeholders. Tests may replace it.
var Now = time.Now

// Date is a calendar date without time of day or timezone.
// The zero value means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the Date for year, month, day or the zero Date if that day does not exist
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}
	}
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates t to its calendar date, in t's own location
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar date
func Today() Date {
	return DateOf(Now())
}

// ParseISODate parses a YYYY-MM-DD string
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the "no date" value
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight UTC on d
func (d Date) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// String formats d as YYYY-MM-DD, or "" for the zero Date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes d as "YYYY-MM-DD" or null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes "YYYY-MM-DD" or null
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseISODate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores d as a YYYY-MM-DD string, or NULL for the zero Date
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan reads dates back from either text or driver-parsed time values
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v.UTC())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into event.Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseISODate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is the normalized result of parsing a listing's date text
type DateRange struct {
	Start Date
	End   Date
}

var (
	untilPattern      = regexp.MustCompile(`(?i)until\s+(\d{1,2}\s+[A-Za-z]+\.?\s+\d{4})`)
	untilMonthPattern = regexp.MustCompile(`(?i)until\s+([A-Za-z]+)\s+(\d{4})`)
	rangePattern      = regexp.MustCompile(`(\d{1,2}\s+[A-Za-z]+\.?(?:\s+\d{4})?)\s*[-–—]\s*(\d{1,2}\s+[A-Za-z]+\.?\s+\d{4})`)
	singlePattern     = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\.?,?\s+(\d{4})`)
	isoPattern        = regexp.MustCompile(`^\s*(\d{4})-(\d{2})-(\d{2})`)
	yearPattern       = regexp.MustCompile(`\d{4}`)
	ongoingPattern    = regexp.MustCompile(`(?i)\bongoing\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseDateRange parses listing date text into a start and optional end date.
// Recognized, in order: "Until 29 March 2026", "15 Mar - 20 Jun 2026"
// (hyphen, en-dash or em-dash) and a bare "17 February 2026".
// Unparseable parts come back as zero Dates.
func ParseDateRange(text string) DateRange {
	if m := untilPattern.FindStringSubmatch(text); m != nil {
		return DateRange{Start: Today(), End: ParseSingleDate(m[1])}
	}

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		startText, endText := m[1], m[2]
		// "15 Mar - 20 Jun 2026": the start borrows the end's year
		if !yearPattern.MatchString(startText) {
			if year := yearPattern.FindString(endText); year != "" {
				startText += " " + year
			}
		}
		return DateRange{Start: ParseSingleDate(startText), End: ParseSingleDate(endText)}
	}

	if m := singlePattern.FindString(text); m != "" {
		return DateRange{Start: ParseSingleDate(m)}
	}

	return DateRange{}
}

// ParseSingleDate parses one date in "15 Mar 2026", "Tuesday, 17 February 2026"
// or ISO "2026-03-15[T...]" form. Returns the zero Date if parsing fails.
func ParseSingleDate(text string) Date {
	if m := isoPattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return NewDate(year, time.Month(month), day)
	}

	m := singlePattern.FindStringSubmatch(text)
	if m == nil {
		return Date{}
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return Date{}
	}
	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		return Date{}
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return Date{}
	}
	return NewDate(year, month, day)
}

// ParseUntilMonth handles "Until August 2026", which names no day.
// The end date is the first of that month.
func ParseUntilMonth(text string) (DateRange, bool) {
	m := untilMonthPattern.FindStringSubmatch(text)
	if m == nil {
		return DateRange{}, false
	}
	month, ok := months[strings.ToLower(m[1])]
	if !ok {
		return DateRange{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return DateRange{}, false
	}
	return DateRange{Start: Today(), End: NewDate(year, month, 1)}, true
}

// IsOngoing reports whether the date text marks an open-ended listing
func IsOngoing(text string) bool {
	return ongoingPattern.MatchString(text)
}

// StartOrToday returns d, or today when d is the zero Date
func StartOrToday(d Date) Date {
	if d.IsZero() {
		return Today()
	}
	return d
}

// ParseMonth looks up an English month name or abbreviation
func ParseMonth(name string) (time.Month, bool) {
	m, ok := months[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}
