// Package reconcile merges freshly scraped candidates into the event catalog.
//
// Events are matched on the fingerprint of their source URL within a venue.
// A match is updated in place, keeping its slug; anything new gets a slug that
// is unique across the whole catalog. A failure on one candidate is logged and
// counted without stopping the rest of the batch.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/artsea-london/artsea/internal/event"
	"github.com/artsea-london/artsea/internal/logger"
	"github.com/artsea-london/artsea/internal/store"
)

// Repository is the persistence the engine needs. *store.Store implements it.
type Repository interface {
	VenueBySlug(ctx context.Context, slug string) (*store.Venue, error)
	Slugs(ctx context.Context) ([]string, error)
	EventBySourceHash(ctx context.Context, venueID uuid.UUID, hash string) (*store.Event, error)
	CreateEvent(ctx context.Context, e *store.Event) error
	UpdateEvent(ctx context.Context, e *store.Event) error
}

// Result counts what happened to one venue's batch
type Result struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Errors   int `json:"errors"`
}

// Engine upserts candidates through a Repository
type Engine struct {
	repo Repository
	log  *logger.Logger
}

// New creates an Engine. A nil log uses the package default.
func New(repo Repository, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Default()
	}
	return &Engine{repo: repo, log: log}
}

// Upsert reconciles candidates for the venue with the given slug.
// It returns an error only when the venue is unknown or existing slugs
// cannot be loaded; per-candidate failures are counted in Result.Errors.
func (e *Engine) Upsert(ctx context.Context, venueSlug string, candidates []event.Candidate) (Result, error) {
	var result Result

	venue, err := e.repo.VenueBySlug(ctx, venueSlug)
	if err != nil {
		return result, err
	}

	existing, err := e.repo.Slugs(ctx)
	if err != nil {
		return result, fmt.Errorf("loading existing slugs: %w", err)
	}
	slugs := event.NewSlugSet(existing)

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		c := &candidates[i]
		inserted, err := e.upsertOne(ctx, venue, c, slugs)
		if err != nil {
			result.Errors++
			e.log.Error("failed to upsert event", logger.Fields{
				"venue": venueSlug,
				"title": c.Title,
				"url":   c.SourceURL,
			}, err)
			continue
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

// upsertOne reports whether c was inserted (true) or updated (false)
func (e *Engine) upsertOne(ctx context.Context, venue *store.Venue, c *event.Candidate, slugs event.SlugSet) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, fmt.Errorf("invalid candidate: %w", err)
	}

	hash := event.Fingerprint(c.SourceURL)

	found, err := e.repo.EventBySourceHash(ctx, venue.ID, hash)
	switch {
	case err == nil:
		apply(found, c)
		return false, e.repo.UpdateEvent(ctx, found)
	case !errors.Is(err, store.ErrNotFound):
		return false, err
	}

	row := &store.Event{
		VenueID:    venue.ID,
		Slug:       slugs.Claim(event.Slugify(c.Title)),
		SourceHash: hash,
	}
	apply(row, c)
	return true, e.repo.CreateEvent(ctx, row)
}

// apply copies the mutable fields of c onto row
func apply(row *store.Event, c *event.Candidate) {
	row.Title = c.Title
	row.Description = c.Description
	row.EventType = c.Type
	row.StartDate = c.StartDate
	row.EndDate = c.EndDate
	row.ImageURL = c.ImageURL
	row.SourceURL = c.SourceURL
	row.IsFree = c.IsFree
	row.IsSoldOut = c.IsSoldOut
}
