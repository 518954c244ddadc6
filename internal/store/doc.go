// Package store persists venues and events with gorm.
//
// SQLite (pure Go, via glebarez/sqlite) is the local and test backend;
// PostgreSQL is used in production. Events are unique by slug and by the
// pair (venue, source hash), which is what reconciliation keys on.
package store
