// Package calendar exports stored events as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/artsea-london/artsea/internal/store"
)

const (
	prodID    = "-//ArtSea London//artsea//EN"
	uidDomain = "artsea.london"
	// RFC 5545 3.1: lines longer than 75 octets are folded
	maxLineOctets = 75
)

// Now stamps DTSTAMP; tests replace it
var Now = time.Now

// GenerateICS renders events as a single VCALENDAR of all-day VEVENTs.
// An empty calendarName omits X-WR-CALNAME.
func GenerateICS(events []store.Event, calendarName string) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if calendarName != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(calendarName))
	}

	stamp := formatICSTime(Now())
	for i := range events {
		writeEvent(&ics, &events[i], stamp)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *store.Event, stamp string) {
	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@%s", evt.ID, uidDomain))
	writeLine(ics, "DTSTAMP:"+stamp)

	// all-day: DTEND is the exclusive day after the last day
	writeLine(ics, "DTSTART;VALUE=DATE:"+formatICSDate(evt.StartDate.Time()))
	writeLine(ics, "DTEND;VALUE=DATE:"+formatICSDate(evt.LastDay().AddDays(1).Time()))

	writeLine(ics, "SUMMARY:"+escapeICS(evt.Title))

	description := evt.Description
	if evt.IsFree != nil && *evt.IsFree {
		description = strings.TrimSpace("Free entry.\n" + description)
	}
	if description != "" {
		writeLine(ics, "DESCRIPTION:"+escapeICS(description))
	}

	if name := evt.VenueName(); name != "" {
		writeLine(ics, "LOCATION:"+escapeICS(name+", London"))
	}
	writeLine(ics, "CATEGORIES:"+escapeICS(string(evt.EventType)))

	if evt.SourceURL != "" {
		writeLine(ics, "URL:"+evt.SourceURL)
	}

	if evt.IsSoldOut != nil && *evt.IsSoldOut {
		writeLine(ics, "X-ARTSEA-SOLD-OUT:TRUE")
	}
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:TRANSPARENT")
	writeLine(ics, "END:VEVENT")
}

// writeLine appends one content line, folded per RFC 5545, with CRLF
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		// never split a UTF-8 sequence
		for cut > 0 && !utf8Start(line[cut]) {
			cut--
		}
		if cut == 0 {
			// no rune boundary in reach: invalid UTF-8, split bytes as they are
			cut = limit
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// the leading space counts toward the next line
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar text values
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
