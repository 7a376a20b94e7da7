package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/acutialens/photo-marketplace/internal/model"
)

// PhotoRepo provides CRUD operations for photos and maintains the
// photo counters on events and photographers.  Counter updates are
// issued as single-statement atomic increments so concurrent uploads
// to the same event never lose updates.  All timestamp fields are
// assumed to be stored in UTC.
type PhotoRepo struct {
	db *sql.DB
}

// NewPhotoRepo returns a new PhotoRepo bound to the given database.
func NewPhotoRepo(db *sql.DB) *PhotoRepo { return &PhotoRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *PhotoRepo) DB() *sql.DB { return r.db }

// PhotoRecord mirrors the schema of the photos table.  It is used
// internally by the repository when constructing or scanning rows.
// Tags are serialized to a JSON array before hitting the database.
type PhotoRecord struct {
	ID             uint64
	EventID        uint64
	PhotographerID uint64
	URL            string
	OriginalURL    string
	PriceCents     uint32
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateTx inserts a new photo and bumps the photo counters on the
// owning event and photographer, all within the provided transaction.
// The generated ID is populated on the record.  The caller must
// commit or rollback the transaction.  The event increment doubles as
// an existence check: when no event row matches, ErrEventNotFound is
// returned and the caller should roll back.
func (r *PhotoRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *PhotoRecord) error {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return err
	}
	const q = `INSERT INTO photos (event_id, photographer_id, url, original_url, price_cents, tags) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, p.EventID, p.PhotographerID, p.URL, p.OriginalURL, p.PriceCents, string(tags))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	// Atomic counter increments; never read-modify-write in Go.
	res, err := tx.ExecContext(ctx, `UPDATE events SET photo_count = photo_count + 1 WHERE id = ?`, p.EventID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrEventNotFound
	}
	if _, err := tx.ExecContext(ctx, `UPDATE photographers SET photos_count = photos_count + 1 WHERE id = ?`, p.PhotographerID); err != nil {
		return err
	}
	// Query back the row to populate timestamps and defaults.
	const sel = `SELECT id, event_id, photographer_id, url, original_url, price_cents, created_at, updated_at FROM photos WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(
		&p.ID, &p.EventID, &p.PhotographerID, &p.URL, &p.OriginalURL, &p.PriceCents,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

// PublicPhoto is the redacted projection served on all public
// endpoints.  The original (high-resolution) reference is never
// selected here; only the order-detail path exposes it, and only for
// APPROVED orders.
type PublicPhoto struct {
	ID               uint64   `json:"id"`
	EventID          uint64   `json:"event_id"`
	EventName        string   `json:"event_name"`
	PhotographerID   uint64   `json:"photographer_id"`
	PhotographerName string   `json:"photographer_name"`
	URL              string   `json:"url"`
	PriceCents       uint32   `json:"price_cents"`
	Tags             []string `json:"tags"`
	CreatedAt        string   `json:"created_at"`
}

// GetPublicByID returns the redacted view of a single photo together
// with its event and photographer names.  sql.ErrNoRows is returned
// when the photo does not exist.
func (r *PhotoRepo) GetPublicByID(ctx context.Context, id uint64) (*PublicPhoto, error) {
	const q = `SELECT p.id, p.event_id, e.name, p.photographer_id, u.name, p.url, p.price_cents, p.tags, p.created_at
	           FROM photos p
	           JOIN events e ON e.id = p.event_id
	           JOIN photographers ph ON ph.id = p.photographer_id
	           JOIN users u ON u.id = ph.user_id
	           WHERE p.id = ?`
	var out PublicPhoto
	var tagsRaw []byte
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&out.ID, &out.EventID, &out.EventName, &out.PhotographerID, &out.PhotographerName,
		&out.URL, &out.PriceCents, &tagsRaw, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	out.Tags = decodeTags(tagsRaw)
	out.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &out, nil
}

// GetByIDs resolves photos for the given distinct IDs in one batch.
// The result map is keyed by photo ID; callers compare its size to
// the requested set to detect unresolved references.  Passing an
// empty slice returns an empty map.
func (r *PhotoRepo) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Photo, error) {
	out := make(map[uint64]model.Photo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, event_id, photographer_id, url, original_url, price_cents, created_at, updated_at
	      FROM photos WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.EventID, &p.PhotographerID, &p.URL, &p.OriginalURL, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOwnershipTx loads the fields needed to authorize and perform a
// delete: the uploading photographer's user ID, the owning event and
// the two storage references.  Runs inside the provided transaction
// so the subsequent delete sees the same row.
func (r *PhotoRepo) GetOwnershipTx(ctx context.Context, tx *sql.Tx, photoID uint64) (uploaderUserID, eventID uint64, url, originalURL string, err error) {
	const q = `SELECT ph.user_id, p.event_id, p.url, p.original_url
	           FROM photos p
	           JOIN photographers ph ON ph.id = p.photographer_id
	           WHERE p.id = ?`
	err = tx.QueryRowContext(ctx, q, photoID).Scan(&uploaderUserID, &eventID, &url, &originalURL)
	return
}

// DeleteTx removes a photo row and decrements the owning event's
// photo counter within the provided transaction.  The photographer
// counter is left to the recount repair.
func (r *PhotoRepo) DeleteTx(ctx context.Context, tx *sql.Tx, photoID, eventID uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, photoID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	_, err = tx.ExecContext(ctx, `UPDATE events SET photo_count = photo_count - 1 WHERE id = ? AND photo_count > 0`, eventID)
	return err
}

// PhotoSearchQuery defines filters & pagination for browsing photos.
type PhotoSearchQuery struct {
	EventID  uint64
	Tag      string
	Sort     string // recent | price_asc | price_desc
	Page     int
	PageSize int
}

// Search returns the redacted photo listing matching the query plus
// the total row count for pagination.  Ordering defaults to newest
// first.
func (r *PhotoRepo) Search(ctx context.Context, q PhotoSearchQuery) ([]PublicPhoto, int64, error) {
	where := []string{}
	args := []any{}

	if q.EventID != 0 {
		where = append(where, "p.event_id = ?")
		args = append(args, q.EventID)
	}
	if q.Tag != "" {
		where = append(where, "JSON_CONTAINS(p.tags, JSON_QUOTE(?))")
		args = append(args, q.Tag)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM photos p WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "p.created_at DESC"
	switch q.Sort {
	case "price_asc":
		order = "p.price_cents ASC"
	case "price_desc":
		order = "p.price_cents DESC"
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT p.id, p.event_id, e.name, p.photographer_id, u.name, p.url, p.price_cents, p.tags, p.created_at
		FROM photos p
		JOIN events e ON e.id = p.event_id
		JOIN photographers ph ON ph.id = p.photographer_id
		JOIN users u ON u.id = ph.user_id
		WHERE ` + cond + `
		ORDER BY ` + order + `
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicPhoto, 0, limit)
	for rows.Next() {
		var p PublicPhoto
		var tagsRaw []byte
		var createdAt time.Time
		if err := rows.Scan(&p.ID, &p.EventID, &p.EventName, &p.PhotographerID, &p.PhotographerName, &p.URL, &p.PriceCents, &tagsRaw, &createdAt); err != nil {
			return nil, 0, err
		}
		p.Tags = decodeTags(tagsRaw)
		p.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SampleByEvent returns up to limit photos, optionally restricted to
// one event, in random order.  It backs the face-search stub.
func (r *PhotoRepo) SampleByEvent(ctx context.Context, eventID uint64, limit int) ([]PublicPhoto, error) {
	where := "1=1"
	args := []any{}
	if eventID != 0 {
		where = "p.event_id = ?"
		args = append(args, eventID)
	}
	q := `SELECT p.id, p.event_id, e.name, p.photographer_id, u.name, p.url, p.price_cents, p.tags, p.created_at
	      FROM photos p
	      JOIN events e ON e.id = p.event_id
	      JOIN photographers ph ON ph.id = p.photographer_id
	      JOIN users u ON u.id = ph.user_id
	      WHERE ` + where + `
	      ORDER BY RAND()
	      LIMIT ?`
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PublicPhoto, 0, limit)
	for rows.Next() {
		var p PublicPhoto
		var tagsRaw []byte
		var createdAt time.Time
		if err := rows.Scan(&p.ID, &p.EventID, &p.EventName, &p.PhotographerID, &p.PhotographerName, &p.URL, &p.PriceCents, &tagsRaw, &createdAt); err != nil {
			return nil, err
		}
		p.Tags = decodeTags(tagsRaw)
		p.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecountAll recomputes the event and photographer photo counters
// from COUNT(*) over the photos table.  The incremental counters can
// drift under crashes between statements; this repair is idempotent
// and safe to run at any time.  It returns the number of event and
// photographer rows touched.
func (r *PhotoRepo) RecountAll(ctx context.Context) (events int64, photographers int64, err error) {
	const eq = `UPDATE events e
	            SET e.photo_count = (SELECT COUNT(*) FROM photos p WHERE p.event_id = e.id)`
	res, err := r.db.ExecContext(ctx, eq)
	if err != nil {
		return 0, 0, err
	}
	events, err = res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	const pq = `UPDATE photographers ph
	            SET ph.photos_count = (SELECT COUNT(*) FROM photos p WHERE p.photographer_id = ph.id)`
	res, err = r.db.ExecContext(ctx, pq)
	if err != nil {
		return 0, 0, err
	}
	photographers, err = res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	return events, photographers, nil
}

// decodeTags unmarshals the JSON tags column, tolerating NULL and
// legacy empty strings.
func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
