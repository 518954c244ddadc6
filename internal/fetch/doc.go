// Package fetch is the polite HTTP client shared by every venue extractor.
//
// Requests carry a fixed, identifying User-Agent and are never retried. The
// Delay method spaces out consecutive requests to the same site; extractors
// call it between fetches so no venue is hit faster than the configured rate.
package fetch
