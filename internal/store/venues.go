package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertVenue inserts v or, if its slug exists, updates the descriptive fields.
// It returns the stored row.
func (s *Store) UpsertVenue(ctx context.Context, v *Venue) (*Venue, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "website_url", "area", "scraper_module", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		return nil, fmt.Errorf("upserting venue %s: %w", v.Slug, err)
	}
	return s.VenueBySlug(ctx, v.Slug)
}

// Venues returns all venues ordered by name
func (s *Store) Venues(ctx context.Context) ([]Venue, error) {
	var venues []Venue
	if err := s.db.WithContext(ctx).Order("name").Find(&venues).Error; err != nil {
		return nil, fmt.Errorf("listing venues: %w", err)
	}
	return venues, nil
}

// VenueBySlug returns ErrVenueNotFound if no venue has the slug
func (s *Store) VenueBySlug(ctx context.Context, slug string) (*Venue, error) {
	var v Venue
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVenueNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("loading venue %s: %w", slug, err)
	}
	return &v, nil
}
