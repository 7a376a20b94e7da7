package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acutialens/photo-marketplace/internal/model"
	"github.com/acutialens/photo-marketplace/internal/repository"
)

func detailWithOriginals(status string) *repository.OrderDetail {
	a := "/uploads/originals/1-a.jpg"
	b := "/uploads/originals/2-b.jpg"
	return &repository.OrderDetail{
		Status: status,
		Items: []repository.OrderItemDetail{
			{PhotoID: 1, URL: "/uploads/photos/1-a.jpg", OriginalURL: &a},
			{PhotoID: 2, URL: "/uploads/photos/2-b.jpg", OriginalURL: &b},
		},
	}
}

func TestRedactOrderItemsPending(t *testing.T) {
	det := detailWithOriginals(model.OrderPending)
	redactOrderItems(det)
	for _, it := range det.Items {
		assert.Nil(t, it.OriginalURL, "pending orders must not expose originals")
		assert.NotEmpty(t, it.URL, "display reference stays visible")
	}
}

func TestRedactOrderItemsApproved(t *testing.T) {
	det := detailWithOriginals(model.OrderApproved)
	redactOrderItems(det)
	for _, it := range det.Items {
		require.NotNil(t, it.OriginalURL)
		assert.NotEmpty(t, *it.OriginalURL)
	}
}

func TestRedactOrderItemsUnknownStatus(t *testing.T) {
	// Anything that is not APPROVED is treated as not entitled.
	det := detailWithOriginals("REFUNDED")
	redactOrderItems(det)
	for _, it := range det.Items {
		assert.Nil(t, it.OriginalURL)
	}
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, validPaymentMethod(model.PaymentPix))
	assert.True(t, validPaymentMethod(model.PaymentCreditCard))
	assert.True(t, validPaymentMethod(model.PaymentBoleto))
	assert.False(t, validPaymentMethod("CASH"))
	assert.False(t, validPaymentMethod(""))
	assert.False(t, validPaymentMethod("pix")) // handler uppercases before this check
}
