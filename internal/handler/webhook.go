package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/service/payment"
)

// WebhookHandler receives asynchronous callbacks from the payment
// gateway.  With the auto-approving authorizer in place the payload
// is acknowledged and logged but changes no order state.
type WebhookHandler struct{}

func NewWebhookHandler() *WebhookHandler { return &WebhookHandler{} }

// Payments acknowledges a gateway callback.
func (h *WebhookHandler) Payments(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return c.JSON(http.StatusOK, payment.HandleWebhook(payload))
}
