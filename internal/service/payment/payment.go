// Package payment isolates payment authorization behind a one-method
// interface so the pricing and fulfillment flow never learns how money
// actually moves.  The shipped implementation approves every order
// instantly; replacing it with a real gateway touches nothing outside
// this package.
package payment

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Authorization is the outcome of a payment attempt.
type Authorization struct {
	// Approved reports whether the charge went through.
	Approved bool
	// Reference is the external payment identifier, if any.
	Reference string
	// PaidAt is when the payment was confirmed; zero when not
	// approved.
	PaidAt time.Time
}

// Authorizer decides whether an order may be fulfilled.  Implementors
// must not mutate order state; the caller persists the outcome.
type Authorizer interface {
	Authorize(ctx context.Context, orderTotalCents int64, method string) (Authorization, error)
}

// AutoApprover approves every order at the current time.  It stands
// in for the payment gateway until one is integrated.
type AutoApprover struct{}

// NewAutoApprover returns the stand-in authorizer.
func NewAutoApprover() *AutoApprover { return &AutoApprover{} }

// Authorize always approves.  The mock reference keeps downstream
// reporting paths exercised.
func (a *AutoApprover) Authorize(_ context.Context, totalCents int64, method string) (Authorization, error) {
	now := time.Now().UTC()
	log.Printf("payment: auto-approving %d cents via %s (gateway not integrated)", totalCents, method)
	return Authorization{
		Approved:  true,
		Reference: fmt.Sprintf("mock-%d", now.UnixMilli()),
		PaidAt:    now,
	}, nil
}

// HandleWebhook accepts a gateway callback payload.  Until a gateway
// is integrated it only acknowledges receipt; no order state changes.
func HandleWebhook(payload map[string]interface{}) map[string]interface{} {
	log.Printf("payment: webhook received (stub, %d fields ignored)", len(payload))
	return map[string]interface{}{"received": true}
}
