// Package event provides the normalized event schema shared by every venue scraper.
//
// The event package handles candidate representation, free-text date parsing,
// keyword-based type classification, and the identity helpers used during
// reconciliation. Each candidate is fingerprinted from its source URL alone so
// that title or date edits on the venue site never produce a second record.
package event
