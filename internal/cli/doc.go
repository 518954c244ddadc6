// Package cli implements the artsea command-line interface.
//
// The cobra root command loads configuration and sets up logging; the
// subcommands coordinate the scraper, runner, store, filter and calendar
// packages:
//
//	artsea seed                      create tables and upsert configured venues
//	artsea scrape [venue-slug...]    scrape and reconcile, print a per-venue table
//	artsea venues                    list configured venues and their extractors
//	artsea events --filter "free"    list stored events
//	artsea prune --before 2026-01-01 delete events that ended before a date
//
// scrape exits 1 when any venue recorded an error.
package cli
