package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/model"
	"github.com/acutialens/photo-marketplace/internal/pricing"
	"github.com/acutialens/photo-marketplace/internal/queue"
	"github.com/acutialens/photo-marketplace/internal/repository"
	"github.com/acutialens/photo-marketplace/internal/service/payment"
	"github.com/acutialens/photo-marketplace/internal/service/queue_publisher"
)

// OrderHandler bundles dependencies for checkout and order history.
type OrderHandler struct {
	Orders     *repository.OrderRepo
	Photos     *repository.PhotoRepo
	Authorizer payment.Authorizer
}

func NewOrderHandler(o *repository.OrderRepo, p *repository.PhotoRepo, a payment.Authorizer) *OrderHandler {
	return &OrderHandler{Orders: o, Photos: p, Authorizer: a}
}

type orderItemReq struct {
	PhotoID  uint64 `json:"photo_id"`
	Quantity uint32 `json:"quantity"`
}

type createOrderReq struct {
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	PaymentMethod string         `json:"payment_method"` // PIX | CREDIT_CARD | BOLETO
	Items         []orderItemReq `json:"items"`
}

func validPaymentMethod(m string) bool {
	switch m {
	case model.PaymentPix, model.PaymentCreditCard, model.PaymentBoleto:
		return true
	}
	return false
}

// Create prices and persists an order.  Unit prices are read from the
// catalog at this moment and frozen into order_items; later price
// edits never change an existing order.  The order row and all its
// items are written in one transaction so a partially persisted order
// is never observable.
func (h *OrderHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	req.PaymentMethod = strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name/customer_email required"})
	}
	if !validPaymentMethod(req.PaymentMethod) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be PIX, CREDIT_CARD or BOLETO"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
	}

	// Merge duplicate photo ids by summing quantities so the same
	// photo never produces two line items.
	quantities := make(map[uint64]uint32)
	orderedIDs := make([]uint64, 0, len(req.Items))
	for _, it := range req.Items {
		if it.PhotoID == 0 || it.Quantity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each item needs photo_id and quantity >= 1"})
		}
		if _, seen := quantities[it.PhotoID]; !seen {
			orderedIDs = append(orderedIDs, it.PhotoID)
		}
		quantities[it.PhotoID] += it.Quantity
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	photos, err := h.Photos.GetByIDs(ctx, orderedIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load photos failed"})
	}
	for _, id := range orderedIDs {
		if _, ok := photos[id]; !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "one or more photos not found"})
		}
	}

	lines := make([]pricing.Line, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		lines = append(lines, pricing.Line{
			PhotoID:   id,
			UnitCents: int64(photos[id].PriceCents),
			Quantity:  int64(quantities[id]),
		})
	}
	subtotal := pricing.Subtotal(lines)
	fee := pricing.PlatformFee(subtotal)
	total := subtotal + fee

	auth, err := h.Authorizer.Authorize(ctx, total, req.PaymentMethod)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment authorization failed"})
	}

	record := &repository.OrderRecord{
		UserID:           uid,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		PaymentMethod:    req.PaymentMethod,
		SubtotalCents:    subtotal,
		PlatformFeeCents: fee,
		TotalCents:       total,
		Status:           model.OrderPending,
	}
	if auth.Approved {
		record.Status = model.OrderApproved
		paidAt := auth.PaidAt
		record.PaidAt = &paidAt
	}

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Orders.CreateTx(ctx, tx, record); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}
	items := make([]repository.OrderItemRecord, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		items = append(items, repository.OrderItemRecord{
			OrderID:    record.ID,
			PhotoID:    id,
			PriceCents: photos[id].PriceCents,
			Quantity:   quantities[id],
		})
	}
	if err := h.Orders.CreateItemsBulkTx(ctx, tx, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order items failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	if record.Status == model.OrderApproved {
		h.publishApproved(record, len(items))
	}

	detail, err := h.Orders.GetByIDForUser(ctx, record.ID, uid)
	if err != nil {
		// The order is committed; report it even if the read-back
		// failed.
		log.Printf("order create: read back order %d failed: %v", record.ID, err)
		return c.JSON(http.StatusCreated, echo.Map{"id": record.ID, "status": record.Status})
	}
	redactOrderItems(detail)
	return c.JSON(http.StatusCreated, detail)
}

// publishApproved emits the fulfillment event to the broker.  Failures
// are logged and ignored; the order is already committed and the
// consumer side is an audit trail, not part of the contract.
func (h *OrderHandler) publishApproved(o *repository.OrderRecord, itemCount int) {
	paidAt := ""
	if o.PaidAt != nil {
		paidAt = o.PaidAt.UTC().Format(time.RFC3339)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishOrderApproved(ctx, queue.OrderApprovedEvent{
		OrderID:          o.ID,
		UserID:           o.UserID,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		PaymentMethod:    o.PaymentMethod,
		SubtotalCents:    o.SubtotalCents,
		PlatformFeeCents: o.PlatformFeeCents,
		TotalCents:       o.TotalCents,
		ItemCount:        itemCount,
		PaidAt:           paidAt,
	})
}

// redactOrderItems clears every original (high-resolution) reference
// unless the order is APPROVED.  This runs on every path that returns
// an OrderDetail, no matter how the struct was populated.
func redactOrderItems(det *repository.OrderDetail) {
	if det.Status == model.OrderApproved {
		return
	}
	for i := range det.Items {
		det.Items[i].OriginalURL = nil
	}
}

// Get returns one of the caller's orders with line items.  Orders
// belonging to other users yield 404, never 403, so order IDs leak no
// existence information.
func (h *OrderHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	detail, err := h.Orders.GetByIDForUser(ctx, id, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}
	redactOrderItems(detail)
	return c.JSON(http.StatusOK, detail)
}

// List returns the caller's orders, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	orders, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list orders failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orders, "total": len(orders)})
}
