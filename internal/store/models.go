package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artsea-london/artsea/internal/event"
)

// Venue is a museum or gallery whose listings are scraped
type Venue struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	Slug          string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	WebsiteURL    string    `gorm:"type:text" json:"website_url"`
	Area          string    `gorm:"size:50" json:"area"`
	ScraperModule string    `gorm:"size:50" json:"scraper_module"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Venue) TableName() string { return "venues" }

// BeforeCreate assigns an ID to new rows
func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Event is a persisted listing
type Event struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	VenueID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_events_venue_source,priority:1" json:"venue_id"`
	Venue       *Venue     `gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE" json:"venue,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Description string     `gorm:"size:500" json:"description"`
	EventType   event.Type `gorm:"size:20;not null;index" json:"event_type"`
	StartDate   event.Date `gorm:"type:date;not null;index" json:"start_date"`
	EndDate     event.Date `gorm:"type:date" json:"end_date"`
	ImageURL    string     `gorm:"type:text" json:"image_url,omitempty"`
	SourceURL   string     `gorm:"type:text;not null" json:"source_url"`
	IsFree      *bool      `json:"is_free"`
	IsSoldOut   *bool      `json:"is_sold_out"`
	SourceHash  string     `gorm:"size:16;not null;uniqueIndex:idx_events_venue_source,priority:2" json:"source_hash"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Event) TableName() string { return "events" }

// BeforeCreate assigns an ID to new rows
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// LastDay is the final day the event runs: the end date, or the start date
// for single-day and open-ended events and for end dates before the start
func (e *Event) LastDay() event.Date {
	if e.EndDate.IsZero() || e.EndDate.Before(e.StartDate) {
		return e.StartDate
	}
	return e.EndDate
}

// VenueSlug returns the slug of the preloaded venue, or "" if not loaded
func (e *Event) VenueSlug() string {
	if e.Venue == nil {
		return ""
	}
	return e.Venue.Slug
}

// VenueName returns the name of the preloaded venue, or "" if not loaded
func (e *Event) VenueName() string {
	if e.Venue == nil {
		return ""
	}
	return e.Venue.Name
}
