package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/acutialens/photo-marketplace/internal/handler"    // import the handlers that implement business logic
	"github.com/acutialens/photo-marketplace/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/acutialens/photo-marketplace/internal/model"      // role constants
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Group for operations that do not require an existing session
	// (register, login, refresh).  Each of these handlers generates or
	// exchanges tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only issues a new
	// access token and leaves the refresh token untouched.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication.  The handler accepts a
	// JSON body containing a `refresh_token` (single session) or a bearer
	// token (all sessions) and invalidates accordingly.
	g.POST("/logout", a.Logout)

	// Group for routes that require a valid access token.  All handlers
	// registered here execute the JWTAuth middleware before being invoked.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Any known role may call /v1/me; the middleware rejects requests
	// with missing or unknown roles.
	auth.Use(middleware.RequireRole(model.RoleClient, model.RolePhotographer, model.RoleAdmin))
	auth.GET("/me", a.Me)

	// Also map POST /v1/logout outside the protected group so clients can
	// terminate a session with only a refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  These
// routes serve redacted data only: photo listings and details never
// include the original high-resolution reference.  The cache and
// rate-limit middleware are applied here because guest browsing is the
// hot read path.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, ph *handler.PhotoHandler, s *handler.SearchHandler, wh *handler.WebhookHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	// Browse events
	g.GET("/events", ev.List)
	g.GET("/events/:id", ev.Get)
	// Browse photos (filter by event_id, tag; sort; paginate)
	g.GET("/photos", ph.List)
	g.GET("/photos/:id", ph.Get)
	// Face-recognition lookup (simulated scores)
	g.GET("/search/face", s.FaceSearch)

	// Payment gateway callback.  Registered outside the cached group:
	// webhooks must never be cached or throttled away.
	e.POST("/v1/webhooks/payments", wh.Payments)
}
