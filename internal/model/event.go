package model

import "time"

// Event status values stored in events.status.
const (
	EventActive = "ACTIVE"
	EventClosed = "CLOSED"
)

// Event describes a sports event that photos are attached to, as
// stored in the `events` table.  PhotoCount mirrors the number of
// photos currently linked to the event and is updated atomically on
// upload/delete.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – event title.
//  Date         – when the event takes place.
//  Location     – venue description.
//  ThumbnailURL – cover image shown in listings.
//  Description  – free-form text (nullable).
//  Status       – ACTIVE or CLOSED.
//  PhotoCount   – number of photos uploaded for the event.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Event struct {
	ID           uint64    // events.id
	Name         string    // events.name
	Date         time.Time // events.date
	Location     string    // events.location
	ThumbnailURL string    // events.thumbnail_url
	Description  *string   // events.description (nullable)
	Status       string    // events.status
	PhotoCount   uint32    // events.photo_count
	CreatedAt    time.Time // events.created_at
	UpdatedAt    time.Time // events.updated_at
}
