package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artsea-london/artsea/internal/event"
)

// EventBySourceHash finds a venue's event by its source fingerprint
func (s *Store) EventBySourceHash(ctx context.Context, venueID uuid.UUID, hash string) (*Event, error) {
	var e Event
	err := s.db.WithContext(ctx).
		Where("venue_id = ? AND source_hash = ?", venueID, hash).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up source hash %s: %w", hash, err)
	}
	return &e, nil
}

// Slugs returns every event slug in use
func (s *Store) Slugs(ctx context.Context) ([]string, error) {
	var slugs []string
	if err := s.db.WithContext(ctx).Model(&Event{}).Pluck("slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("loading slugs: %w", err)
	}
	return slugs, nil
}

// CreateEvent inserts a new event
func (s *Store) CreateEvent(ctx context.Context, e *Event) error {
	if err := s.db.WithContext(ctx).Omit("Venue").Create(e).Error; err != nil {
		return fmt.Errorf("inserting event %q: %w", e.Title, err)
	}
	return nil
}

// UpdateEvent overwrites the mutable fields of an existing event. Slug,
// venue and source hash never change. Unknown tri-state flags and missing
// end dates are written as NULL.
func (s *Store) UpdateEvent(ctx context.Context, e *Event) error {
	e.UpdatedAt = time.Now().UTC()
	result := s.db.WithContext(ctx).Model(&Event{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"title":       e.Title,
		"description": e.Description,
		"event_type":  e.EventType,
		"start_date":  e.StartDate,
		"end_date":    e.EndDate,
		"image_url":   e.ImageURL,
		"source_url":  e.SourceURL,
		"is_free":     e.IsFree,
		"is_sold_out": e.IsSoldOut,
		"updated_at":  e.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("updating event %q: %w", e.Title, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEvents returns all events with their venue, ordered by start date then title
func (s *Store) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	err := s.db.WithContext(ctx).
		Preload("Venue").
		Order("start_date, title").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// EventBySlug returns the event with its venue, or ErrNotFound
func (s *Store) EventBySlug(ctx context.Context, slug string) (*Event, error) {
	var e Event
	err := s.db.WithContext(ctx).Preload("Venue").Where("slug = ?", slug).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading event %s: %w", slug, err)
	}
	return &e, nil
}

// lastDaySQL mirrors Event.LastDay: end dates before the start do not count
const lastDaySQL = "CASE WHEN end_date IS NULL OR end_date < start_date THEN start_date ELSE end_date END"

// PruneEndedBefore deletes events whose last day is before cutoff and
// returns how many were removed
func (s *Store) PruneEndedBefore(ctx context.Context, cutoff event.Date) (int64, error) {
	if cutoff.IsZero() {
		return 0, errors.New("prune cutoff date is required")
	}
	result := s.db.WithContext(ctx).
		Where(lastDaySQL+" < ?", cutoff).
		Delete(&Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("pruning events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
