package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/acutialens/photo-marketplace/internal/model"
)

// EventRepo provides CRUD operations for sports events.  Events are
// created and managed by admins and browsed publicly.  All timestamp
// fields are assumed to be stored in UTC.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// EventRow is the public projection of an event used in listings and
// detail responses.
type EventRow struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Date         string  `json:"date"`
	Location     string  `json:"location"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Description  *string `json:"description,omitempty"`
	Status       string  `json:"status"`
	PhotoCount   uint32  `json:"photo_count"`
}

// EventSearchQuery defines filters & pagination for browsing events.
// Search matches name or location, case-insensitively.
type EventSearchQuery struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}

// Search returns events matching the query plus the total row count
// for pagination.  Results are ordered by event date descending.
func (r *EventRepo) Search(ctx context.Context, q EventSearchQuery) ([]EventRow, int64, error) {
	where := []string{}
	args := []any{}

	if q.Status != "" {
		where = append(where, "e.status = ?")
		args = append(args, strings.ToUpper(q.Status))
	}
	if q.Search != "" {
		where = append(where, "(LOWER(e.name) LIKE ? OR LOWER(e.location) LIKE ?)")
		pat := "%" + strings.ToLower(q.Search) + "%"
		args = append(args, pat, pat)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM events e WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT e.id, e.name, e.date, e.location, e.thumbnail_url, e.description, e.status, e.photo_count
		FROM events e
		WHERE ` + cond + `
		ORDER BY e.date DESC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]EventRow, 0, limit)
	for rows.Next() {
		row, err := scanEventRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID returns a single event.  sql.ErrNoRows is returned when it
// does not exist.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*EventRow, error) {
	const q = `SELECT e.id, e.name, e.date, e.location, e.thumbnail_url, e.description, e.status, e.photo_count
	           FROM events e WHERE e.id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	var out EventRow
	var date time.Time
	var desc sql.NullString
	if err := row.Scan(&out.ID, &out.Name, &date, &out.Location, &out.ThumbnailURL, &desc, &out.Status, &out.PhotoCount); err != nil {
		return nil, err
	}
	out.Date = date.UTC().Format(time.RFC3339)
	if desc.Valid {
		d := desc.String
		out.Description = &d
	}
	return &out, nil
}

// Create inserts a new event and returns its generated ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) (uint64, error) {
	const q = `INSERT INTO events (name, date, location, thumbnail_url, description, status) VALUES (?, ?, ?, ?, ?, ?)`
	status := e.Status
	if status == "" {
		status = model.EventActive
	}
	res, err := r.db.ExecContext(ctx, q, e.Name, e.Date, e.Location, e.ThumbnailURL, e.Description, status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// EventUpdate carries the optional fields of an event update.  Nil
// fields are left untouched.
type EventUpdate struct {
	Name         *string
	Date         *time.Time
	Location     *string
	ThumbnailURL *string
	Description  *string
	Status       *string
}

// Update applies the non-nil fields of upd to the event.  It returns
// sql.ErrNoRows when the event does not exist and nil when nothing
// was requested to change.
func (r *EventRepo) Update(ctx context.Context, id uint64, upd EventUpdate) error {
	set := []string{}
	args := []any{}
	if upd.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Date != nil {
		set = append(set, "date = ?")
		args = append(args, *upd.Date)
	}
	if upd.Location != nil {
		set = append(set, "location = ?")
		args = append(args, *upd.Location)
	}
	if upd.ThumbnailURL != nil {
		set = append(set, "thumbnail_url = ?")
		args = append(args, *upd.ThumbnailURL)
	}
	if upd.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Status != nil {
		set = append(set, "status = ?")
		args = append(args, strings.ToUpper(*upd.Status))
	}
	if len(set) == 0 {
		return nil
	}
	q := `UPDATE events SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "no-op update of identical values".
		var exists uint64
		if err := r.db.QueryRowContext(ctx, `SELECT id FROM events WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an event.  Deleting an event that still has photos
// fails with ErrConflict so orphaned metadata cannot appear.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	var photos int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos WHERE event_id = ?`, id).Scan(&photos); err != nil {
		return err
	}
	if photos > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
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
	return nil
}

// scanEventRow scans one event listing row from either a *sql.Row or
// *sql.Rows via the shared scanner interface.
func scanEventRow(s interface{ Scan(...any) error }) (EventRow, error) {
	var out EventRow
	var date time.Time
	var desc sql.NullString
	if err := s.Scan(&out.ID, &out.Name, &date, &out.Location, &out.ThumbnailURL, &desc, &out.Status, &out.PhotoCount); err != nil {
		return EventRow{}, err
	}
	out.Date = date.UTC().Format(time.RFC3339)
	if desc.Valid {
		d := desc.String
		out.Description = &d
	}
	return out, nil
}
