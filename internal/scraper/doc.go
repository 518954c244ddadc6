// Package scraper extracts event candidates from London museum and gallery websites.
//
// Each venue has an extractor tailored to the structure of its listing pages:
// goquery selectors over server-rendered HTML, embedded JSON payloads read with
// gjson, or a WordPress REST API. Extractors share the fetch client through the
// Fetcher interface, pace their requests with Fetcher.Delay, and return
// candidates already normalized to the event package's schema.
//
// Build maps a configured extractor kind to its implementation. Venues whose own
// sites refuse automated access either go through the TimeOut London aggregator
// page or are registered as unsupported with a human-readable reason.
package scraper
