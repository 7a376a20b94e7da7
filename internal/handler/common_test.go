package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserIDAcceptsClaimRepresentations(t *testing.T) {
	cases := []struct {
		name string
		val  interface{}
		want uint64
	}{
		{"float64 claim", float64(7), 7}, // JSON numbers decode as float64
		{"uint64", uint64(8), 8},
		{"int", int(9), 9},
		{"int64", int64(10), 10},
		{"numeric string", "11", 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext(t, "/")
			c.Set("user_id", tc.val)
			got, err := getUserID(c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetUserIDRejectsMissingOrGarbage(t *testing.T) {
	c := newTestContext(t, "/")
	_, err := getUserID(c)
	assert.Error(t, err)

	c.Set("user_id", "not-a-number")
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestPaginationDefaultsAndCaps(t *testing.T) {
	c := newTestContext(t, "/?page=0&limit=0")
	page, limit := pagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	c = newTestContext(t, "/?page=3&limit=500")
	page, limit = pagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), totalPages(0, 20))
	assert.Equal(t, int64(1), totalPages(1, 20))
	assert.Equal(t, int64(1), totalPages(20, 20))
	assert.Equal(t, int64(2), totalPages(21, 20))
}
