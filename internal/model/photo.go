package model

import "time"

// Photo represents an uploaded image as stored in the `photos`
// table.  Two storage references exist per photo: URL points at the
// public display asset and is always safe to expose, OriginalURL
// points at the high-resolution asset and must only ever leave the
// system through an APPROVED order.  Both are opaque references
// issued by the storage backend; nothing outside internal/storage
// may parse or construct them.
//
// Fields:
//  ID             – primary key identifier.
//  EventID        – event the photo belongs to.
//  PhotographerID – photographer who uploaded it.
//  URL            – public display reference.
//  OriginalURL    – entitlement-gated high-resolution reference.
//  PriceCents     – price in integer cents; always >= 1.
//  Tags           – free-form labels, stored as a JSON array.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Photo struct {
	ID             uint64    // photos.id
	EventID        uint64    // photos.event_id
	PhotographerID uint64    // photos.photographer_id
	URL            string    // photos.url
	OriginalURL    string    // photos.original_url
	PriceCents     uint32    // photos.price_cents
	Tags           []string  // photos.tags (JSON array column)
	CreatedAt      time.Time // photos.created_at
	UpdatedAt      time.Time // photos.updated_at
}

// Favorite links a user to a photo they marked, as stored in the
// `favorites` table.  The (UserID, PhotoID) pair is unique; toggling
// is idempotent at the repository level.
type Favorite struct {
	ID        uint64    // favorites.id
	UserID    uint64    // favorites.user_id
	PhotoID   uint64    // favorites.photo_id
	CreatedAt time.Time // favorites.created_at
}
