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

func TestPhotoCreateTxBumpsCounters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO photos`)).
		WithArgs(uint64(3), uint64(5), "/uploads/originals/1-a.jpg", "/uploads/originals/1-a.jpg", uint32(990), `["final","sprint"]`).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET photo_count = photo_count + 1 WHERE id = ?`)).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE photographers SET photos_count = photos_count + 1 WHERE id = ?`)).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, event_id, photographer_id, url, original_url, price_cents, created_at, updated_at FROM photos WHERE id = ?`)).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "photographer_id", "url", "original_url", "price_cents", "created_at", "updated_at",
		}).AddRow(11, 3, 5, "/uploads/originals/1-a.jpg", "/uploads/originals/1-a.jpg", 990, now, now))
	mock.ExpectCommit()

	repo := NewPhotoRepo(db)
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	rec := &PhotoRecord{
		EventID:        3,
		PhotographerID: 5,
		URL:            "/uploads/originals/1-a.jpg",
		OriginalURL:    "/uploads/originals/1-a.jpg",
		PriceCents:     990,
		Tags:           []string{"final", "sprint"},
	}
	require.NoError(t, repo.CreateTx(ctx, tx, rec))
	assert.Equal(t, uint64(11), rec.ID)
	assert.Equal(t, now, rec.CreatedAt)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoCreateTxMissingEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO photos`)).
		WillReturnResult(sqlmock.NewResult(12, 1))
	// Zero rows affected on the event counter means no such event.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET photo_count = photo_count + 1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewPhotoRepo(db)
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	rec := &PhotoRecord{EventID: 404, PhotographerID: 5, URL: "u", OriginalURL: "o", PriceCents: 100}
	err = repo.CreateTx(ctx, tx, rec)
	assert.ErrorIs(t, err, ErrEventNotFound)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoDeleteTxGuardsCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM photos WHERE id = ?`)).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE events SET photo_count = photo_count - 1 WHERE id = ? AND photo_count > 0`)).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewPhotoRepo(db)
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteTx(ctx, tx, 11, 3))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecountAllTouchesBothTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE events e`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`UPDATE photographers ph`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewPhotoRepo(db)
	events, photographers, err := repo.RecountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), events)
	assert.Equal(t, int64(2), photographers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, decodeTags([]byte(`["a","b"]`)))
	assert.Empty(t, decodeTags(nil))
	assert.Empty(t, decodeTags([]byte(`not json`)))
}
