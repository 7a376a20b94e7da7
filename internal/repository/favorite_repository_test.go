package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteToggleFlipsBothWays(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFavoriteRepo(db)
	ctx := context.Background()

	// Not favorited yet: toggle inserts and reports true.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM favorites WHERE user_id = ? AND photo_id = ? LIMIT 1`)).
		WithArgs(uint64(7), uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO favorites (user_id, photo_id) VALUES (?, ?)`)).
		WithArgs(uint64(7), uint64(11)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	favorited, err := repo.Toggle(ctx, 7, 11)
	require.NoError(t, err)
	assert.True(t, favorited)

	// Favorited: toggle deletes and reports false.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM favorites WHERE user_id = ? AND photo_id = ? LIMIT 1`)).
		WithArgs(uint64(7), uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM favorites WHERE id = ?`)).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	favorited, err = repo.Toggle(ctx, 7, 11)
	require.NoError(t, err)
	assert.False(t, favorited)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRemoveAbsentIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM favorites WHERE user_id = ? AND photo_id = ?`)).
		WithArgs(uint64(7), uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewFavoriteRepo(db)
	assert.NoError(t, repo.Remove(context.Background(), 7, 404))
	assert.NoError(t, mock.ExpectationsWereMet())
}
