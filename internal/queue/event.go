// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderApprovedEvent is published when an order is successfully fulfilled.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type OrderApprovedEvent struct {
	OrderID          uint64 `json:"order_id"`
	UserID           uint64 `json:"user_id"`
	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	PaymentMethod    string `json:"payment_method"`
	SubtotalCents    int64  `json:"subtotal_cents"`
	PlatformFeeCents int64  `json:"platform_fee_cents"`
	TotalCents       int64  `json:"total_cents"`
	ItemCount        int    `json:"item_count"`
	PaidAt           string `json:"paid_at"`
}
