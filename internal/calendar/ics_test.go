package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/artsea-london/artsea/internal/event"
	"github.com/artsea-london/artsea/internal/store"
)

func pinNow(t *testing.T) {
	t.Helper()
	orig := Now
	Now = func() time.Time { return time.Date(2026, time.February, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { Now = orig })
}

var eventID = uuid.MustParse("6f1c2f9e-3a43-4b8e-9d2c-0d6a4c1b7e55")

func exhibition() store.Event {
	return store.Event{
		ID:          eventID,
		Title:       "Noguchi: Sculpture, Design; Space",
		Description: "A retrospective.\nBook ahead.",
		EventType:   event.TypeVisualArts,
		StartDate:   event.NewDate(2026, time.March, 15),
		EndDate:     event.NewDate(2026, time.June, 20),
		SourceURL:   "https://www.barbican.org.uk/whats-on/2026/event/noguchi",
		Venue:       &store.Venue{Name: "Barbican Centre", Slug: "barbican-centre"},
	}
}

func TestGenerateICS(t *testing.T) {
	pinNow(t)

	ics := GenerateICS([]store.Event{exhibition()}, "ArtSea London")

	requiredLines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//ArtSea London//artsea//EN",
		"X-WR-CALNAME:ArtSea London",
		"BEGIN:VEVENT",
		"UID:6f1c2f9e-3a43-4b8e-9d2c-0d6a4c1b7e55@artsea.london",
		"DTSTAMP:20260201T093000Z",
		"DTSTART;VALUE=DATE:20260315",
		"DTEND;VALUE=DATE:20260621",
		`SUMMARY:Noguchi: Sculpture\, Design\; Space`,
		`DESCRIPTION:A retrospective.\nBook ahead.`,
		`LOCATION:Barbican Centre\, London`,
		"CATEGORIES:visual-arts",
		"URL:https://www.barbican.org.uk/whats-on/2026/event/noguchi",
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	lines := strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n")
	have := make(map[string]bool, len(lines))
	for _, l := range lines {
		have[l] = true
	}
	for _, want := range requiredLines {
		if !have[want] {
			t.Errorf("ICS missing line %q\n%s", want, ics)
		}
	}

	if !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("ICS should end with END:VCALENDAR and CRLF")
	}
}

func TestGenerateICS_SingleDay(t *testing.T) {
	pinNow(t)

	evt := store.Event{
		ID:        eventID,
		Title:     "Lunchtime Concert",
		EventType: event.TypeMusic,
		StartDate: event.NewDate(2026, time.December, 31),
		IsFree:    event.Flag(true),
		IsSoldOut: event.Flag(true),
	}
	ics := GenerateICS([]store.Event{evt}, "")

	for _, want := range []string{
		"DTSTART;VALUE=DATE:20261231",
		"DTEND;VALUE=DATE:20270101",
		"DESCRIPTION:Free entry.",
		"X-ARTSEA-SOLD-OUT:TRUE",
	} {
		if !strings.Contains(ics, want+"\r\n") {
			t.Errorf("ICS missing %q", want)
		}
	}

	if strings.Contains(ics, "X-WR-CALNAME") {
		t.Error("calendar name should be omitted when empty")
	}
	if strings.Contains(ics, "LOCATION:") {
		t.Error("LOCATION should be omitted without a venue")
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	ics := GenerateICS(nil, "ArtSea London")

	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("empty calendar should contain no events")
	}
	if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "END:VCALENDAR") {
		t.Error("empty calendar should still be a valid VCALENDAR")
	}
}

func TestGenerateICS_Multiple(t *testing.T) {
	first := exhibition()
	second := exhibition()
	second.ID = uuid.New()
	second.Title = "Another Show"

	ics := GenerateICS([]store.Event{first, second}, "")
	if n := strings.Count(ics, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("expected 2 VEVENTs, got %d", n)
	}
}

func TestWriteLine_Folding(t *testing.T) {
	var b strings.Builder
	long := "DESCRIPTION:" + strings.Repeat("é", 60)
	writeLine(&b, long)

	out := b.String()
	physical := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	if len(physical) < 2 {
		t.Fatalf("expected folded output, got %q", out)
	}
	for i, l := range physical {
		if len(l) > maxLineOctets {
			t.Errorf("line %d is %d octets", i, len(l))
		}
		if i > 0 && !strings.HasPrefix(l, " ") {
			t.Errorf("continuation line %d does not start with a space", i)
		}
	}

	// unfolding restores the original
	unfolded := strings.ReplaceAll(strings.TrimSuffix(out, "\r\n"), "\r\n ", "")
	if unfolded != long {
		t.Errorf("unfolded = %q, want %q", unfolded, long)
	}
}

func TestWriteLine_InvalidUTF8(t *testing.T) {
	done := make(chan string, 1)
	go func() {
		var b strings.Builder
		writeLine(&b, "SUMMARY:"+strings.Repeat("\x80", 200))
		done <- b.String()
	}()

	select {
	case out := <-done:
		for i, l := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
			if len(l) > maxLineOctets {
				t.Errorf("line %d is %d octets", i, len(l))
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("writeLine did not return for a line of continuation bytes")
	}
}

func TestGenerateICS_InvalidUTF8Title(t *testing.T) {
	evt := exhibition()
	evt.Title = strings.Repeat("\x80", 100)

	ics := GenerateICS([]store.Event{evt}, "")
	if !strings.Contains(ics, "END:VEVENT\r\n") {
		t.Error("calendar with an invalid UTF-8 title was not completed")
	}
}

func TestFormatICSTime(t *testing.T) {
	tm := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	if got := formatICSTime(tm); got != "20260315T143000Z" {
		t.Errorf("formatICSTime() = %v, want 20260315T143000Z", got)
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Simple text", "Simple text"},
		{"Text, with comma", "Text\\, with comma"},
		{"Text; with semicolon", "Text\\; with semicolon"},
		{"Text\nwith newline", "Text\\nwith newline"},
		{"Text\r\nwith CRLF", "Text\\nwith CRLF"},
		{"Back\\slash", "Back\\\\slash"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeICS(tt.input); got != tt.want {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
