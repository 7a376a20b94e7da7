package middleware

// identity.go defines helper functions shared across middleware files.
// It provides the user identifier extraction used by the rate
// limiter's per-user key strategies.  JWTAuth stores claims under
// "user_id"; for unauthenticated requests "anon" is returned so guest
// traffic shares one bucket per IP.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated user's identifier from the
// Echo context as a string, or "anon" when no user is authenticated.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64, int64, int:
		return fmt.Sprint(t)
	}
	return "anon"
}
