package model

import "time"

// Order status values stored in orders.status.  PENDING -> APPROVED is
// the only transition currently exercised; there is no rejection or
// cancellation path yet.
const (
	OrderPending  = "PENDING"
	OrderApproved = "APPROVED"
)

// Payment method values accepted on order creation.
const (
	PaymentPix        = "PIX"
	PaymentCreditCard = "CREDIT_CARD"
	PaymentBoleto     = "BOLETO"
)

// Order records a purchase of one or more photos, as stored in the
// `orders` table.  All money fields are integer cents.  The invariant
// TotalCents = SubtotalCents + PlatformFeeCents is enforced at
// creation time by internal/pricing and never recomputed afterwards.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – purchaser account.
//  CustomerName     – contact name captured at checkout.
//  CustomerEmail    – contact email captured at checkout.
//  PaymentMethod    – PIX, CREDIT_CARD or BOLETO.
//  SubtotalCents    – sum of item price * quantity.
//  PlatformFeeCents – 5% fee on the subtotal, rounded half-up.
//  TotalCents       – subtotal plus fee.
//  Status           – PENDING or APPROVED.
//  PaidAt           – when payment was confirmed (null while pending).
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Order struct {
	ID               uint64     // orders.id
	UserID           uint64     // orders.user_id
	CustomerName     string     // orders.customer_name
	CustomerEmail    string     // orders.customer_email
	PaymentMethod    string     // orders.payment_method
	SubtotalCents    int64      // orders.subtotal_cents
	PlatformFeeCents int64      // orders.platform_fee_cents
	TotalCents       int64      // orders.total_cents
	Status           string     // orders.status
	PaidAt           *time.Time // orders.paid_at (nullable)
	CreatedAt        time.Time  // orders.created_at
	UpdatedAt        time.Time  // orders.updated_at
}

// OrderItem is an immutable line-item snapshot stored in the
// `order_items` table.  PriceCents is the photo's price at the moment
// the order was created; later price changes on the photo never alter
// existing orders.
//
// Fields:
//  ID         – primary key identifier.
//  OrderID    – owning order.
//  PhotoID    – purchased photo.
//  PriceCents – unit price frozen at order creation.
//  Quantity   – number of units; always >= 1.
//  CreatedAt  – creation timestamp.
type OrderItem struct {
	ID         uint64    // order_items.id
	OrderID    uint64    // order_items.order_id
	PhotoID    uint64    // order_items.photo_id
	PriceCents uint32    // order_items.price_cents
	Quantity   uint32    // order_items.quantity
	CreatedAt  time.Time // order_items.created_at
}
