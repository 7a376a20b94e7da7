package repository

import (
	"context"
	"database/sql"
	"time"
)

// FavoriteRepo manages the favorites a user has marked on photos.
// The (user_id, photo_id) pair is unique in the table; Toggle and
// Remove are written so that repeating them is a no-op rather than an
// error.
type FavoriteRepo struct {
	db *sql.DB
}

// NewFavoriteRepo returns a new FavoriteRepo bound to the given
// database.
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Toggle flips the favorite state for the user/photo pair and returns
// the resulting state (true when the photo is now favorited).
func (r *FavoriteRepo) Toggle(ctx context.Context, userID, photoID uint64) (bool, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM favorites WHERE user_id = ? AND photo_id = ? LIMIT 1`,
		userID, photoID).Scan(&id)
	switch {
	case err == nil:
		if _, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id); err != nil {
			return false, err
		}
		return false, nil
	case err == sql.ErrNoRows:
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO favorites (user_id, photo_id) VALUES (?, ?)`, userID, photoID); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// Remove deletes the favorite if present.  Removing an absent
// favorite is a no-op, not an error.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, photoID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND photo_id = ?`, userID, photoID)
	return err
}

// FavoriteRow joins a favorite with the redacted photo and event info
// shown in the user's favorites list.
type FavoriteRow struct {
	PhotoID    uint64 `json:"photo_id"`
	URL        string `json:"url"`
	PriceCents uint32 `json:"price_cents"`
	EventID    uint64 `json:"event_id"`
	EventName  string `json:"event_name"`
	CreatedAt  string `json:"created_at"`
}

// ListByUser returns the user's favorites, newest first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]FavoriteRow, error) {
	const q = `SELECT f.photo_id, p.url, p.price_cents, p.event_id, e.name, f.created_at
	           FROM favorites f
	           JOIN photos p ON p.id = f.photo_id
	           JOIN events e ON e.id = p.event_id
	           WHERE f.user_id = ?
	           ORDER BY f.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]FavoriteRow, 0)
	for rows.Next() {
		var f FavoriteRow
		var createdAt time.Time
		if err := rows.Scan(&f.PhotoID, &f.URL, &f.PriceCents, &f.EventID, &f.EventName, &createdAt); err != nil {
			return nil, err
		}
		f.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
