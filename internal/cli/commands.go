package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/artsea-london/artsea/internal/event"
	"github.com/artsea-london/artsea/internal/fetch"
	"github.com/artsea-london/artsea/internal/filter"
	"github.com/artsea-london/artsea/internal/logger"
	"github.com/artsea-london/artsea/internal/metrics"
	"github.com/artsea-london/artsea/internal/reconcile"
	"github.com/artsea-london/artsea/internal/runner"
	"github.com/artsea-london/artsea/internal/scraper"
)

func (a *app) newScrapeCmd() *cobra.Command {
	var (
		dryRun      bool
		format      string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "scrape [venue-slug...]",
		Short: "Scrape venues and reconcile their events into the catalog",
		Long: `Scrape every configured venue, or only the ones named, and upsert
the results. Prints one row per venue and exits 1 if any venue had errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format, FormatText, FormatJSON)
			if err != nil {
				return err
			}

			venues, err := a.cfg.SelectVenues(args)
			if err != nil {
				return err
			}
			specs := make([]scraper.Spec, len(venues))
			for i, v := range venues {
				specs[i] = v.Spec()
			}

			ctx := cmd.Context()
			rec := metrics.New()
			r := &runner.Runner{
				Venues: specs,
				Fetcher: fetch.New(
					fetch.WithDelay(a.cfg.Fetch.Delay),
					fetch.WithTimeout(a.cfg.Fetch.Timeout),
				),
				Metrics: rec,
				Log:     a.log,
				DryRun:  dryRun,
			}

			if !dryRun {
				db, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer db.Close()
				r.Reconciler = reconcile.New(db, a.log)
			}

			summary := r.Run(ctx)
			if err := WriteSummary(a.stdout, summary, outFormat); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if metricsFile == "" {
				metricsFile = a.cfg.Metrics.File
			}
			if metricsFile != "" {
				if err := rec.WriteTextfile(metricsFile); err != nil {
					a.log.Error("failed to write metrics", logger.Fields{"path": metricsFile}, err)
				}
			}

			if err := ctx.Err(); err != nil {
				return fmt.Errorf("scrape interrupted: %w", err)
			}
			if summary.Failed() {
				return errRunFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Scrape without writing to the database")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	return cmd
}

func (a *app) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and upsert the configured venues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, v := range a.cfg.Venues {
				saved, err := db.UpsertVenue(ctx, v.Record())
				if err != nil {
					return err
				}
				a.log.Debug("venue seeded", logger.Fields{"venue": saved.Slug, "id": saved.ID.String()})
			}

			fmt.Fprintf(a.stdout, "Seeded %d venues.\n", len(a.cfg.Venues))
			return nil
		},
	}
}

func (a *app) newVenuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "venues",
		Short: "List configured venues and their extractors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return WriteVenues(a.stdout, a.cfg.Venues)
		},
	}
}

func (a *app) newEventsCmd() *cobra.Command {
	var (
		query  string
		when   string
		order  string
		format string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events in the catalog",
		Long: `List stored events. By default only events that have not ended are shown.

Filter syntax (space-separated):
  type:<type> venue:<slug> area:<area> from:YYYY-MM-DD to:YYYY-MM-DD
  free available <words>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format, FormatText, FormatJSON, FormatICS)
			if err != nil {
				return err
			}
			sortOrder := SortOrder(strings.ToLower(order))
			if !sortOrder.Valid() {
				return fmt.Errorf("invalid sort order: %s (must be 'date', 'venue', or 'title')", order)
			}

			f, err := filter.Parse(query)
			if err != nil {
				return fmt.Errorf("invalid filter: %w", err)
			}
			if when != "" {
				from, to, err := filter.ParseDateRange(when)
				if err != nil {
					return err
				}
				f.From, f.To = from, to
			}
			if !all && f.From.IsZero() {
				f.From = event.Today()
			}

			ctx := cmd.Context()
			db, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			events, err := db.ListEvents(ctx)
			if err != nil {
				return err
			}

			events = f.Apply(events)
			sortEvents(events, sortOrder)
			a.log.Debug("events listed", logger.Fields{"filter": f.String(), "count": len(events)})

			return WriteEvents(a.stdout, events, outFormat)
		},
	}

	cmd.Flags().StringVar(&query, "filter", "", "Filter query, e.g. \"type:dance area:south free\"")
	cmd.Flags().StringVar(&when, "when", "", "Date window, e.g. \"Mar 1-15\", \"March 1 - April 15\" or \"March\"")
	cmd.Flags().StringVar(&order, "sort", "date", "Sort order: date, venue, or title")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, or ics")
	cmd.Flags().BoolVar(&all, "all", false, "Include events that have already ended")
	return cmd
}

func (a *app) newPruneCmd() *cobra.Command {
	var before string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete events that ended before a date",
		Long: `Delete events whose end date (or start date, for single-day events)
is before the cutoff. The default cutoff is today minus the configured retention.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff := event.Today().AddDays(-int(a.cfg.Retention / (24 * time.Hour)))
			if before != "" {
				d, err := event.ParseISODate(before)
				if err != nil {
					return fmt.Errorf("invalid --before date: %w", err)
				}
				cutoff = d
			}

			ctx := cmd.Context()
			db, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.PruneEndedBefore(ctx, cutoff)
			if err != nil {
				return err
			}

			a.log.Info("pruned ended events", logger.Fields{"cutoff": cutoff.String(), "deleted": n})
			fmt.Fprintf(a.stdout, "Deleted %d events that ended before %s.\n", n, cutoff)
			return nil
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "Cutoff date (YYYY-MM-DD)")
	return cmd
}
