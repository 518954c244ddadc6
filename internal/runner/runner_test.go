package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artsea-london/artsea/internal/event"
	"github.com/artsea-london/artsea/internal/fetch"
	"github.com/artsea-london/artsea/internal/logger"
	"github.com/artsea-london/artsea/internal/metrics"
	"github.com/artsea-london/artsea/internal/reconcile"
	"github.com/artsea-london/artsea/internal/scraper"
	"github.com/artsea-london/artsea/internal/store"
)

const barbicanListing = `<html><body>
<a href="/whats-on/2026/event/noguchi">
  <h3>Noguchi: Sculpture and Design</h3>
  <span class="date">15 Mar - 20 Jun 2026</span>
</a>
<a href="/whats-on/2026/event/lunchtime-concert">
  <h3>Lunchtime Concert: Guildhall Musicians</h3>
  <time>Tuesday 17 February 2026</time>
  <p>Free entry.</p>
</a>
</body></html>`

// pageFetcher serves canned HTML keyed by URL and 404s everything else
type pageFetcher map[string]string

func (f pageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	body, ok := f[url]
	if !ok {
		return "", &fetch.FetchError{URL: url, StatusCode: 404}
	}
	return body, nil
}

func (f pageFetcher) FetchJSON(ctx context.Context, url string) ([]byte, error) {
	body, err := f.FetchPage(ctx, url)
	return []byte(body), err
}

func (f pageFetcher) Delay(ctx context.Context) error { return ctx.Err() }

// recordingReconciler remembers what it was asked to upsert
type recordingReconciler struct {
	calls  map[string]int
	result reconcile.Result
	err    error
}

func (r *recordingReconciler) Upsert(ctx context.Context, venueSlug string, candidates []event.Candidate) (reconcile.Result, error) {
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[venueSlug] = len(candidates)
	return r.result, r.err
}

func quietLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(logger.LevelInfo, &buf), &buf
}

func fixedClock() func() time.Time {
	t := time.Date(2026, time.February, 1, 6, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestRun_Venues(t *testing.T) {
	log, buf := quietLogger()
	rec := &recordingReconciler{result: reconcile.Result{Inserted: 2}}
	m := metrics.New()

	r := &Runner{
		Venues: []scraper.Spec{
			{Venue: "barbican-centre", Kind: scraper.KindBarbican},
			{Venue: "royal-academy", Kind: scraper.KindUnsupported, Reason: "Cloudflare challenge"},
			{Venue: "tate-modern", Kind: scraper.KindTate},
		},
		Fetcher: pageFetcher{
			"https://www.barbican.org.uk/whats-on": barbicanListing,
		},
		Reconciler: rec,
		Metrics:    m,
		Log:        log,
		now:        fixedClock(),
	}

	summary := r.Run(context.Background())

	if len(summary.Venues) != 3 {
		t.Fatalf("expected 3 venue results, got %d", len(summary.Venues))
	}

	barbican := summary.Venues[0]
	if barbican.Scraped != 2 || barbican.Inserted != 2 || barbican.Errors != 0 {
		t.Errorf("barbican = %+v", barbican)
	}
	if rec.calls["barbican-centre"] != 2 {
		t.Errorf("reconciler got %d barbican candidates, want 2", rec.calls["barbican-centre"])
	}

	ra := summary.Venues[1]
	if ra.Errors != 0 || ra.Note != "skipped: Cloudflare challenge" {
		t.Errorf("royal-academy = %+v", ra)
	}
	if _, called := rec.calls["royal-academy"]; called {
		t.Error("unsupported venue should not be reconciled")
	}

	tate := summary.Venues[2]
	if tate.Errors != 1 || tate.Scraped != 0 {
		t.Errorf("tate-modern = %+v", tate)
	}
	if !strings.Contains(tate.Note, "404") {
		t.Errorf("tate-modern note = %q, want fetch error", tate.Note)
	}
	if _, called := rec.calls["tate-modern"]; called {
		t.Error("venue with zero events should not be reconciled")
	}

	if !summary.Failed() || summary.TotalErrors() != 1 {
		t.Errorf("Failed() = %v, TotalErrors() = %d", summary.Failed(), summary.TotalErrors())
	}
	if totals := summary.Totals(); totals.Scraped != 2 || totals.Inserted != 2 {
		t.Errorf("Totals() = %+v", totals)
	}
	if summary.Duration <= 0 {
		t.Errorf("Duration = %v", summary.Duration)
	}

	if !strings.Contains(buf.String(), `"venue":"tate-modern"`) {
		t.Errorf("expected venue-scoped log lines, got:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "artsea.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
}

func TestRun_DryRun(t *testing.T) {
	log, _ := quietLogger()
	rec := &recordingReconciler{}

	r := &Runner{
		Venues:     []scraper.Spec{{Venue: "barbican-centre", Kind: scraper.KindBarbican}},
		Fetcher:    pageFetcher{"https://www.barbican.org.uk/whats-on": barbicanListing},
		Reconciler: rec,
		Log:        log,
		DryRun:     true,
	}

	summary := r.Run(context.Background())
	if summary.Failed() {
		t.Errorf("dry run should not fail: %+v", summary.Venues)
	}
	if summary.Venues[0].Scraped != 2 || summary.Venues[0].Inserted != 0 {
		t.Errorf("result = %+v", summary.Venues[0])
	}
	if len(rec.calls) != 0 {
		t.Errorf("dry run reconciled %v", rec.calls)
	}
}

func TestRun_ReconcileErrors(t *testing.T) {
	tests := []struct {
		name       string
		rec        *recordingReconciler
		wantErrors int
		wantNote   string
	}{
		{
			name:       "per-candidate failures",
			rec:        &recordingReconciler{result: reconcile.Result{Inserted: 1, Errors: 1}},
			wantErrors: 1,
		},
		{
			name:       "venue not seeded",
			rec:        &recordingReconciler{err: fmt.Errorf("barbican-centre: %w", store.ErrVenueNotFound)},
			wantErrors: 1,
			wantNote:   "venue not seeded",
		},
		{
			name:       "slug load failure",
			rec:        &recordingReconciler{err: errors.New("loading existing slugs: disk I/O error")},
			wantErrors: 1,
			wantNote:   "disk I/O error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := quietLogger()
			r := &Runner{
				Venues:     []scraper.Spec{{Venue: "barbican-centre", Kind: scraper.KindBarbican}},
				Fetcher:    pageFetcher{"https://www.barbican.org.uk/whats-on": barbicanListing},
				Reconciler: tt.rec,
				Log:        log,
			}

			res := r.Run(context.Background()).Venues[0]
			if res.Errors != tt.wantErrors {
				t.Errorf("Errors = %d, want %d", res.Errors, tt.wantErrors)
			}
			if tt.wantNote != "" && !strings.Contains(res.Note, tt.wantNote) {
				t.Errorf("Note = %q, want %q", res.Note, tt.wantNote)
			}
		})
	}
}

func TestRun_BadSpec(t *testing.T) {
	log, _ := quietLogger()
	r := &Runner{
		Venues:     []scraper.Spec{{Venue: "hayward-gallery", Kind: scraper.KindTimeOut}},
		Fetcher:    pageFetcher{},
		Reconciler: &recordingReconciler{},
		Log:        log,
	}

	summary := r.Run(context.Background())
	if summary.TotalErrors() != 1 {
		t.Errorf("TotalErrors() = %d, want 1", summary.TotalErrors())
	}
}

func TestRun_Cancelled(t *testing.T) {
	log, _ := quietLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{
		Venues:     []scraper.Spec{{Venue: "barbican-centre", Kind: scraper.KindBarbican}},
		Fetcher:    pageFetcher{},
		Reconciler: &recordingReconciler{},
		Log:        log,
	}

	if summary := r.Run(ctx); len(summary.Venues) != 0 {
		t.Errorf("cancelled run processed %d venues", len(summary.Venues))
	}
}

func TestRun_EndToEnd(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, store.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "artsea.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if _, err := db.UpsertVenue(ctx, &store.Venue{Name: "Barbican Centre", Slug: "barbican-centre"}); err != nil {
		t.Fatalf("UpsertVenue() error = %v", err)
	}

	log, _ := quietLogger()
	r := &Runner{
		Venues:     []scraper.Spec{{Venue: "barbican-centre", Kind: scraper.KindBarbican}},
		Fetcher:    pageFetcher{"https://www.barbican.org.uk/whats-on": barbicanListing},
		Reconciler: reconcile.New(db, log),
		Log:        log,
	}

	first := r.Run(ctx).Venues[0]
	if first.Inserted != 2 || first.Updated != 0 || first.Errors != 0 {
		t.Fatalf("first run = %+v", first)
	}

	second := r.Run(ctx).Venues[0]
	if second.Inserted != 0 || second.Updated != 2 || second.Errors != 0 {
		t.Errorf("second run = %+v", second)
	}

	events, err := db.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 stored events, got %d", len(events))
	}
	concert := events[0]
	if concert.Slug != "lunchtime-concert-guildhall-musicians" {
		t.Errorf("slug = %q", concert.Slug)
	}
	if concert.IsFree == nil || !*concert.IsFree {
		t.Errorf("IsFree = %v, want true", concert.IsFree)
	}
}
