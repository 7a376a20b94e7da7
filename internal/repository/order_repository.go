package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// OrderRepo provides CRUD operations for orders and their line items.
// An order groups one or more purchased photos for a user.  Line
// items live in the order_items table and freeze the unit price at
// purchase time.  All timestamp fields are assumed to be stored in
// UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// OrderRecord mirrors the schema of the orders table.  It is used
// internally by the repository when constructing or scanning rows.
type OrderRecord struct {
	ID               uint64
	UserID           uint64
	CustomerName     string
	CustomerEmail    string
	PaymentMethod    string
	SubtotalCents    int64
	PlatformFeeCents int64
	TotalCents       int64
	Status           string
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItemRecord mirrors the order_items table.  Only fields needed
// for insertion are exposed.
type OrderItemRecord struct {
	OrderID    uint64
	PhotoID    uint64
	PriceCents uint32
	Quantity   uint32
}

// CreateTx inserts a new order within the scope of an existing
// transaction.  It populates the generated ID on the provided record
// and returns any error from the database.  The caller must commit
// or rollback the transaction; items must be inserted in the same
// transaction so a partially persisted order is never observable.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *OrderRecord) error {
	const q = `INSERT INTO orders (user_id, customer_name, customer_email, payment_method, subtotal_cents, platform_fee_cents, total_cents, status, paid_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		o.UserID, o.CustomerName, o.CustomerEmail, o.PaymentMethod,
		o.SubtotalCents, o.PlatformFeeCents, o.TotalCents, o.Status, o.PaidAt,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT id, user_id, customer_name, customer_email, payment_method, subtotal_cents, platform_fee_cents, total_cents, status, paid_at, created_at, updated_at FROM orders WHERE id = ?`
	var paidAt sql.NullTime
	err = tx.QueryRowContext(ctx, sel, o.ID).Scan(
		&o.ID, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.PaymentMethod,
		&o.SubtotalCents, &o.PlatformFeeCents, &o.TotalCents, &o.Status,
		&paidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return nil
}

// CreateItemsBulkTx inserts multiple order_items rows in a single
// statement.  The caller must supply the order ID in each record.
// The insertion occurs within the provided transaction.  Passing an
// empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []OrderItemRecord) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, photo_id, price_cents, quantity) VALUES `
	args := make([]interface{}, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, it.OrderID, it.PhotoID, it.PriceCents, it.Quantity)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// OrderItemDetail is a line item joined with its photo's storage
// references.  OriginalURL is populated straight from the database;
// the handler clears it for any order that is not APPROVED before the
// struct leaves the process.
type OrderItemDetail struct {
	PhotoID     uint64  `json:"photo_id"`
	URL         string  `json:"url"`
	OriginalURL *string `json:"original_url,omitempty"`
	EventID     uint64  `json:"event_id"`
	EventName   string  `json:"event_name"`
	PriceCents  uint32  `json:"price_cents"`
	Quantity    uint32  `json:"quantity"`
}

// OrderDetail encapsulates an order with its line items for display
// to the purchaser.
type OrderDetail struct {
	ID               uint64            `json:"id"`
	Status           string            `json:"status"`
	CustomerName     string            `json:"customer_name"`
	CustomerEmail    string            `json:"customer_email"`
	PaymentMethod    string            `json:"payment_method"`
	SubtotalCents    int64             `json:"subtotal_cents"`
	PlatformFeeCents int64             `json:"platform_fee_cents"`
	TotalCents       int64             `json:"total_cents"`
	PaidAt           *string           `json:"paid_at,omitempty"`
	CreatedAt        string            `json:"created_at"`
	Items            []OrderItemDetail `json:"items"`
}

// GetByIDForUser returns a single order with items for the given
// user.  The lookup is scoped to the purchaser: an order that exists
// but belongs to someone else is indistinguishable from a missing one
// and yields sql.ErrNoRows, so existence never leaks.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, orderID, userID uint64) (*OrderDetail, error) {
	const q = `SELECT o.id, o.status, o.customer_name, o.customer_email, o.payment_method,
	                  o.subtotal_cents, o.platform_fee_cents, o.total_cents, o.paid_at, o.created_at
	           FROM orders o
	           WHERE o.id = ? AND o.user_id = ?`
	var det OrderDetail
	var paidAt sql.NullTime
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, q, orderID, userID).Scan(
		&det.ID, &det.Status, &det.CustomerName, &det.CustomerEmail, &det.PaymentMethod,
		&det.SubtotalCents, &det.PlatformFeeCents, &det.TotalCents, &paidAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		iso := paidAt.Time.UTC().Format(time.RFC3339)
		det.PaidAt = &iso
	}
	det.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	det.Items = []OrderItemDetail{}

	const itemQ = `SELECT oi.photo_id, p.url, p.original_url, p.event_id, e.name, oi.price_cents, oi.quantity
	               FROM order_items oi
	               JOIN photos p ON p.id = oi.photo_id
	               JOIN events e ON e.id = p.event_id
	               WHERE oi.order_id = ?
	               ORDER BY oi.id`
	rows, err := r.db.QueryContext(ctx, itemQ, det.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it OrderItemDetail
		var orig string
		if err := rows.Scan(&it.PhotoID, &it.URL, &orig, &it.EventID, &it.EventName, &it.PriceCents, &it.Quantity); err != nil {
			return nil, err
		}
		it.OriginalURL = &orig
		det.Items = append(det.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// OrderSummary is the lighter projection used when listing a user's
// orders.  Items carry the display reference only; no gating is
// needed because the original reference is never selected.
type OrderSummary struct {
	ID            uint64             `json:"id"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	TotalCents    int64              `json:"total_cents"`
	CreatedAt     string             `json:"created_at"`
	Items         []OrderSummaryItem `json:"items"`
}

// OrderSummaryItem is one line of an OrderSummary.
type OrderSummaryItem struct {
	PhotoID    uint64 `json:"photo_id"`
	URL        string `json:"url"`
	PriceCents uint32 `json:"price_cents"`
	Quantity   uint32 `json:"quantity"`
}

// ListByUser returns all orders for the given user, newest first,
// with their summary items.  When no orders exist, an empty slice is
// returned.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderSummary, error) {
	const q = `SELECT o.id, o.status, o.payment_method, o.total_cents, o.created_at
	           FROM orders o
	           WHERE o.user_id = ?
	           ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	summaries := make([]OrderSummary, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var s OrderSummary
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.Status, &s.PaymentMethod, &s.TotalCents, &createdAt); err != nil {
			return nil, err
		}
		s.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		s.Items = []OrderSummaryItem{}
		index[s.ID] = len(summaries)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return summaries, nil
	}
	// Populate items for all orders in a single query.
	ids := make([]interface{}, 0, len(summaries))
	placeholders := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
		placeholders = append(placeholders, "?")
	}
	itemQuery := `SELECT oi.order_id, oi.photo_id, p.url, oi.price_cents, oi.quantity
	              FROM order_items oi
	              JOIN photos p ON p.id = oi.photo_id
	              WHERE oi.order_id IN (` + strings.Join(placeholders, ",") + `)
	              ORDER BY oi.order_id, oi.id`
	irows, err := r.db.QueryContext(ctx, itemQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var oid uint64
		var it OrderSummaryItem
		if err := irows.Scan(&oid, &it.PhotoID, &it.URL, &it.PriceCents, &it.Quantity); err != nil {
			return nil, err
		}
		idx, ok := index[oid]
		if !ok {
			continue
		}
		summaries[idx].Items = append(summaries[idx].Items, it)
	}
	if err := irows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}
