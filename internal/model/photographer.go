package model

import "time"

// Photographer status values stored in photographers.status.  A
// photographer must be APPROVED before uploads are accepted; new
// registrations start as PENDING.
const (
	PhotographerPending  = "PENDING"
	PhotographerApproved = "APPROVED"
	PhotographerRejected = "REJECTED"
)

// Photographer extends a user account with the photographer profile
// stored in the `photographers` table.  The PhotosCount column is an
// imperatively maintained counter; see PhotoRepo.RecountAll for the
// repair path when it drifts.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owning user account.
//  Status      – moderation state (PENDING, APPROVED, REJECTED).
//  PhotosCount – number of photos uploaded by this photographer.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Photographer struct {
	ID          uint64    // photographers.id
	UserID      uint64    // photographers.user_id
	Status      string    // photographers.status
	PhotosCount uint32    // photographers.photos_count
	CreatedAt   time.Time // photographers.created_at
	UpdatedAt   time.Time // photographers.updated_at
}
