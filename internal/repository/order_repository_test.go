package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCreateTxInsertsAndReadsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	paidAt := now

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs(uint64(7), "Ana Souza", "ana@example.com", "PIX",
			int64(990), int64(50), int64(1040), "APPROVED", paidAt).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, customer_name, customer_email, payment_method, subtotal_cents, platform_fee_cents, total_cents, status, paid_at, created_at, updated_at FROM orders WHERE id = ?`)).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "customer_name", "customer_email", "payment_method",
			"subtotal_cents", "platform_fee_cents", "total_cents", "status", "paid_at", "created_at", "updated_at",
		}).AddRow(42, 7, "Ana Souza", "ana@example.com", "PIX", 990, 50, 1040, "APPROVED", now, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items (order_id, photo_id, price_cents, quantity) VALUES (?, ?, ?, ?),(?, ?, ?, ?)`)).
		WithArgs(uint64(42), uint64(1), uint32(495), uint32(1), uint64(42), uint64(2), uint32(495), uint32(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := NewOrderRepo(db)
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	rec := &OrderRecord{
		UserID:           7,
		CustomerName:     "Ana Souza",
		CustomerEmail:    "ana@example.com",
		PaymentMethod:    "PIX",
		SubtotalCents:    990,
		PlatformFeeCents: 50,
		TotalCents:       1040,
		Status:           "APPROVED",
		PaidAt:           &paidAt,
	}
	require.NoError(t, repo.CreateTx(ctx, tx, rec))
	assert.Equal(t, uint64(42), rec.ID)
	require.NotNil(t, rec.PaidAt)
	assert.Equal(t, now, rec.CreatedAt)

	items := []OrderItemRecord{
		{OrderID: rec.ID, PhotoID: 1, PriceCents: 495, Quantity: 1},
		{OrderID: rec.ID, PhotoID: 2, PriceCents: 495, Quantity: 1},
	}
	require.NoError(t, repo.CreateItemsBulkTx(ctx, tx, items))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateTxRollsBackOnItemFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "customer_name", "customer_email", "payment_method",
			"subtotal_cents", "platform_fee_cents", "total_cents", "status", "paid_at", "created_at", "updated_at",
		}).AddRow(9, 7, "Ana", "ana@example.com", "PIX", 100, 5, 105, "PENDING", nil, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := NewOrderRepo(db)
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	rec := &OrderRecord{UserID: 7, CustomerName: "Ana", CustomerEmail: "ana@example.com", PaymentMethod: "PIX", SubtotalCents: 100, PlatformFeeCents: 5, TotalCents: 105, Status: "PENDING"}
	require.NoError(t, repo.CreateTx(ctx, tx, rec))

	err = repo.CreateItemsBulkTx(ctx, tx, []OrderItemRecord{{OrderID: rec.ID, PhotoID: 1, PriceCents: 100, Quantity: 1}})
	require.Error(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateItemsBulkTxEmptyIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := NewOrderRepo(db)
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, repo.CreateItemsBulkTx(context.Background(), tx, nil))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForUserScopesToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// A foreign order id yields no rows, indistinguishable from a
	// missing one.
	mock.ExpectQuery(`SELECT o\.id, o\.status`).
		WithArgs(uint64(42), uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewOrderRepo(db)
	_, err = repo.GetByIDForUser(context.Background(), 42, 99)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
