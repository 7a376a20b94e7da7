package router

import (
	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/handler"
	"github.com/acutialens/photo-marketplace/internal/middleware"
	"github.com/acutialens/photo-marketplace/internal/model"
)

// RegisterPhotographer registers upload and photo management
// endpoints under /v1.  Routes require the PHOTOGRAPHER role (ADMIN
// is also accepted so moderators can remove photos); the handler
// additionally verifies the photographer profile is APPROVED before
// accepting uploads.
func RegisterPhotographer(e *echo.Echo, p *handler.PhotoHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePhotographer, model.RoleAdmin),
	)
	// Multipart upload: file + event_id + price_cents + tags.
	g.POST("/photos", p.Upload)
	// Delete is allowed for the uploading photographer and for admins;
	// ownership is checked in the handler.
	g.DELETE("/photos/:id", p.Delete)
}
