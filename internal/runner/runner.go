// Package runner drives one scrape run across every configured venue.
//
// Venues are processed one after another: build the extractor, scrape,
// reconcile. Failures stay scoped to the venue they happened in and are
// reported in the Summary rather than aborting the run.
package runner

import (
	"context"
	"errors"
	"time"

	"github.com/artsea-london/artsea/internal/event"
	"github.com/artsea-london/artsea/internal/logger"
	"github.com/artsea-london/artsea/internal/metrics"
	"github.com/artsea-london/artsea/internal/reconcile"
	"github.com/artsea-london/artsea/internal/scraper"
	"github.com/artsea-london/artsea/internal/store"
)

// Reconciler persists a venue's candidates. *reconcile.Engine implements it.
type Reconciler interface {
	Upsert(ctx context.Context, venueSlug string, candidates []event.Candidate) (reconcile.Result, error)
}

// VenueResult is one row of the run summary
type VenueResult struct {
	Venue    string        `json:"venue"`
	Scraped  int           `json:"scraped"`
	Inserted int           `json:"inserted"`
	Updated  int           `json:"updated"`
	Errors   int           `json:"errors"`
	Note     string        `json:"note,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Summary is the outcome of a run
type Summary struct {
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration_ns"`
	DryRun   bool          `json:"dry_run"`
	Venues   []VenueResult `json:"venues"`
}

// TotalErrors sums errors over all venues
func (s *Summary) TotalErrors() int {
	n := 0
	for _, v := range s.Venues {
		n += v.Errors
	}
	return n
}

// Failed reports whether any venue recorded an error
func (s *Summary) Failed() bool {
	return s.TotalErrors() > 0
}

// Totals sums the counters of every venue into one row
func (s *Summary) Totals() VenueResult {
	t := VenueResult{Venue: "total", Duration: s.Duration}
	for _, v := range s.Venues {
		t.Scraped += v.Scraped
		t.Inserted += v.Inserted
		t.Updated += v.Updated
		t.Errors += v.Errors
	}
	return t
}

// Runner scrapes and reconciles a fixed list of venues
type Runner struct {
	Venues     []scraper.Spec
	Fetcher    scraper.Fetcher
	Reconciler Reconciler
	Metrics    *metrics.Recorder // optional
	Log        *logger.Logger    // optional; defaults to the package logger
	DryRun     bool              // scrape only, never reconcile

	now func() time.Time
}

// Run processes every venue in order and returns the summary. A cancelled
// context stops the run after the current venue; venues not reached are
// absent from the summary.
func (r *Runner) Run(ctx context.Context) *Summary {
	log := r.Log
	if log == nil {
		log = logger.Default()
	}
	now := r.now
	if now == nil {
		now = time.Now
	}

	summary := &Summary{Started: now(), DryRun: r.DryRun}
	log.Info("scrape run started", logger.Fields{
		"venues":  len(r.Venues),
		"dry_run": r.DryRun,
	})

	for _, spec := range r.Venues {
		if ctx.Err() != nil {
			log.Warn("scrape run cancelled", logger.Fields{"venue": spec.Venue})
			break
		}

		start := now()
		res := r.runVenue(ctx, spec, log.With(logger.Fields{"venue": spec.Venue}))
		res.Duration = now().Sub(start)
		summary.Venues = append(summary.Venues, res)

		if r.Metrics != nil {
			r.Metrics.VenueDone(spec.Venue, res.Duration, res.Errors == 0)
		}
	}

	summary.Duration = now().Sub(summary.Started)
	if r.Metrics != nil {
		r.Metrics.RunDone(summary.Duration)
	}

	totals := summary.Totals()
	log.Info("scrape run finished", logger.Fields{
		"scraped":     totals.Scraped,
		"inserted":    totals.Inserted,
		"updated":     totals.Updated,
		"errors":      totals.Errors,
		"duration_ms": summary.Duration.Milliseconds(),
	})
	return summary
}

func (r *Runner) runVenue(ctx context.Context, spec scraper.Spec, log *logger.Logger) VenueResult {
	res := VenueResult{Venue: spec.Venue}

	s, err := scraper.Build(spec, r.Fetcher)
	if err != nil {
		log.Error("cannot build extractor", nil, err)
		r.countErrors(spec.Venue, "config", 1)
		res.Errors = 1
		res.Note = err.Error()
		return res
	}

	if u, ok := s.(scraper.Unsupported); ok {
		log.Info("venue skipped", logger.Fields{"reason": u.Reason()})
		res.Note = "skipped: " + u.Reason()
		return res
	}

	log.Info("scraping venue", nil)
	candidates, err := s.Scrape(ctx)
	res.Scraped = len(candidates)
	if r.Metrics != nil {
		r.Metrics.Scraped(spec.Venue, res.Scraped)
	}
	if err != nil {
		log.Error("extractor failed", logger.Fields{"partial": res.Scraped}, err)
		r.countErrors(spec.Venue, "scrape", 1)
		res.Errors++
		res.Note = err.Error()
	}

	if res.Scraped == 0 {
		log.Info("no events found", nil)
		return res
	}
	if r.DryRun {
		log.Info("dry run, not reconciling", logger.Fields{"scraped": res.Scraped})
		return res
	}

	result, err := r.Reconciler.Upsert(ctx, spec.Venue, candidates)
	res.Inserted = result.Inserted
	res.Updated = result.Updated
	res.Errors += result.Errors
	if r.Metrics != nil {
		r.Metrics.Reconciled(spec.Venue, result.Inserted, result.Updated)
	}
	r.countErrors(spec.Venue, "reconcile", result.Errors)

	if err != nil {
		res.Errors++
		res.Note = err.Error()
		stage := "reconcile"
		if errors.Is(err, store.ErrVenueNotFound) {
			stage = "config"
			res.Note = "venue not seeded"
		}
		r.countErrors(spec.Venue, stage, 1)
		log.Error("reconciliation failed", nil, err)
		return res
	}

	log.Info("venue reconciled", logger.Fields{
		"scraped":  res.Scraped,
		"inserted": res.Inserted,
		"updated":  res.Updated,
		"errors":   res.Errors,
	})
	return res
}

func (r *Runner) countErrors(venue, stage string, n int) {
	if r.Metrics != nil {
		r.Metrics.Errors(venue, stage, n)
	}
}
