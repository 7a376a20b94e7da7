package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/acutialens/photo-marketplace/internal/model"
)

// ErrPhotographerNotApproved is returned when an upload is attempted
// by a photographer whose profile has not been approved yet.
var ErrPhotographerNotApproved = errors.New("photographer not approved")

// PhotographerRepo manages photographer profiles linked to user
// accounts.
type PhotographerRepo struct {
	db *sql.DB
}

// NewPhotographerRepo returns a new PhotographerRepo bound to the
// given database.
func NewPhotographerRepo(db *sql.DB) *PhotographerRepo { return &PhotographerRepo{db: db} }

// Create inserts a photographer profile for the given user in the
// PENDING state.  Called during registration of PHOTOGRAPHER
// accounts.
func (r *PhotographerRepo) Create(ctx context.Context, userID uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO photographers (user_id, status) VALUES (?, ?)`,
		userID, model.PhotographerPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUserID returns the photographer profile owned by the given
// user account.  sql.ErrNoRows is returned when none exists.
func (r *PhotographerRepo) GetByUserID(ctx context.Context, userID uint64) (model.Photographer, error) {
	var p model.Photographer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, photos_count, created_at, updated_at FROM photographers WHERE user_id = ? LIMIT 1`,
		userID).Scan(&p.ID, &p.UserID, &p.Status, &p.PhotosCount, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// RequireApproved resolves the photographer profile for a user and
// checks its moderation state.  It returns sql.ErrNoRows when the
// profile is missing and ErrPhotographerNotApproved when the profile
// exists but is not APPROVED.
func (r *PhotographerRepo) RequireApproved(ctx context.Context, userID uint64) (model.Photographer, error) {
	p, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return model.Photographer{}, err
	}
	if p.Status != model.PhotographerApproved {
		return model.Photographer{}, ErrPhotographerNotApproved
	}
	return p, nil
}

// PhotographerRow is the admin projection of a photographer joined
// with the owning user account.
type PhotographerRow struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	PhotosCount uint32 `json:"photos_count"`
	CreatedAt   string `json:"created_at"`
}

// ListAll returns every photographer with user details, newest first.
// Used by the admin moderation screen.
func (r *PhotographerRepo) ListAll(ctx context.Context) ([]PhotographerRow, error) {
	const q = `SELECT ph.id, ph.user_id, u.name, u.email, ph.status, ph.photos_count, ph.created_at
	           FROM photographers ph
	           JOIN users u ON u.id = ph.user_id
	           ORDER BY ph.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PhotographerRow, 0)
	for rows.Next() {
		var p PhotographerRow
		var createdAt time.Time
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.Status, &p.PhotosCount, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets the moderation state of a photographer.  Returns
// sql.ErrNoRows when the photographer does not exist.
func (r *PhotographerRepo) UpdateStatus(ctx context.Context, photographerID uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE photographers SET status = ? WHERE id = ?`, status, photographerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		if err := r.db.QueryRowContext(ctx, `SELECT id FROM photographers WHERE id = ?`, photographerID).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}
