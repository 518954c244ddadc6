package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/artsea-london/artsea/internal/calendar"
	"github.com/artsea-london/artsea/internal/config"
	"github.com/artsea-london/artsea/internal/runner"
	"github.com/artsea-london/artsea/internal/store"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

const calendarName = "ArtSea London"

// parseFormat validates s against the formats a command accepts
func parseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, len(allowed))
	for i, f := range allowed {
		if f == format {
			return format, nil
		}
		names[i] = "'" + string(f) + "'"
	}
	return "", fmt.Errorf("invalid format: %s (must be %s)", s, strings.Join(names, " or "))
}

// WriteSummary writes a scrape run summary
func WriteSummary(w io.Writer, summary *runner.Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		return writeSummaryText(w, summary)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeSummaryText(w io.Writer, summary *runner.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "VENUE\tSCRAPED\tINSERTED\tUPDATED\tERRORS\tNOTE")
	for _, v := range summary.Venues {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", v.Venue, v.Scraped, v.Inserted, v.Updated, v.Errors, v.Note)
	}
	t := summary.Totals()
	fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", "TOTAL", t.Scraped, t.Inserted, t.Updated, t.Errors)
	if err := tw.Flush(); err != nil {
		return err
	}

	if summary.DryRun {
		fmt.Fprintln(w, "\nDry run: nothing was written.")
	}
	if summary.Failed() {
		fmt.Fprintf(w, "\nFinished with %d errors in %s.\n", t.Errors, summary.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(w, "\nFinished in %s.\n", summary.Duration.Round(time.Millisecond))
	}
	return nil
}

// WriteEvents writes a list of stored events
func WriteEvents(w io.Writer, events []store.Event, format OutputFormat) error {
	switch format {
	case FormatJSON:
		if events == nil {
			events = []store.Event{}
		}
		return writeJSON(w, events)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(events, calendarName))
		return err
	case FormatText:
		return writeEventsText(w, events)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeEventsText(w io.Writer, events []store.Event) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATES\tVENUE\tTYPE\tTITLE\tFLAGS")
	for i := range events {
		e := &events[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", formatDates(e), e.VenueSlug(), e.EventType, e.Title, flags(e))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
	return nil
}

// formatDates renders "2026-03-15" or "2026-03-15..2026-06-20"
func formatDates(e *store.Event) string {
	if e.EndDate.IsZero() || e.EndDate == e.StartDate {
		return e.StartDate.String()
	}
	return e.StartDate.String() + ".." + e.EndDate.String()
}

func flags(e *store.Event) string {
	var parts []string
	if e.IsFree != nil && *e.IsFree {
		parts = append(parts, "free")
	}
	if e.IsSoldOut != nil && *e.IsSoldOut {
		parts = append(parts, "sold out")
	}
	return strings.Join(parts, ", ")
}

// WriteVenues lists configured venues
func WriteVenues(w io.Writer, venues []config.VenueConfig) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tAREA\tSCRAPER\tSOURCE")
	for _, v := range venues {
		source := v.BaseURL
		switch {
		case v.Reason != "":
			source = v.Reason
		case v.Path != "":
			source = v.Path
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Slug, v.Name, v.Area, v.Scraper, source)
	}
	return tw.Flush()
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
