package repository

import (
	"context"
	"database/sql"
	"sort"

	"github.com/acutialens/photo-marketplace/internal/model"
)

// StatsRepo aggregates platform-wide numbers for the admin dashboard.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo returns a new StatsRepo bound to the given database.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// PlatformStats summarizes the marketplace.  Revenue only counts
// APPROVED orders.
type PlatformStats struct {
	TotalEvents       int64 `json:"total_events"`
	TotalPhotos       int64 `json:"total_photos"`
	TotalOrders       int64 `json:"total_orders"`
	TotalUsers        int64 `json:"total_users"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
}

// GetPlatformStats returns the counters and total approved revenue.
func (r *StatsRepo) GetPlatformStats(ctx context.Context) (PlatformStats, error) {
	var s PlatformStats
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&s.TotalEvents); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos`).Scan(&s.TotalPhotos); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE status = ?`, model.OrderApproved).Scan(&s.TotalOrders); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&s.TotalUsers); err != nil {
		return s, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_cents), 0) FROM orders WHERE status = ?`, model.OrderApproved).Scan(&s.TotalRevenueCents); err != nil {
		return s, err
	}
	return s, nil
}

// EventRevenue is one row of the revenue-by-event report.
type EventRevenue struct {
	EventID      uint64 `json:"event_id"`
	EventName    string `json:"event_name"`
	RevenueCents int64  `json:"revenue_cents"`
	OrderCount   int64  `json:"order_count"`
}

// RevenueByEvent sums approved order items per event, highest revenue
// first.  Revenue is item price * quantity; the platform fee is not
// attributed to events.
func (r *StatsRepo) RevenueByEvent(ctx context.Context) ([]EventRevenue, error) {
	const q = `SELECT e.id, e.name,
	                  SUM(oi.price_cents * oi.quantity) AS revenue,
	                  COUNT(DISTINCT o.id) AS order_count
	           FROM order_items oi
	           JOIN orders o ON o.id = oi.order_id AND o.status = ?
	           JOIN photos p ON p.id = oi.photo_id
	           JOIN events e ON e.id = p.event_id
	           GROUP BY e.id, e.name`
	rows, err := r.db.QueryContext(ctx, q, model.OrderApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]EventRevenue, 0)
	for rows.Next() {
		var er EventRevenue
		if err := rows.Scan(&er.EventID, &er.EventName, &er.RevenueCents, &er.OrderCount); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RevenueCents > out[j].RevenueCents })
	return out, nil
}
