package router

import (
	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/handler"
	"github.com/acutialens/photo-marketplace/internal/middleware"
	"github.com/acutialens/photo-marketplace/internal/model"
)

// RegisterAdmin registers moderation, reporting and event management
// endpoints under /v1/admin.  Every route requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, ev *handler.EventHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	// Dashboard numbers and revenue report.
	g.GET("/stats", a.PlatformStats)
	g.GET("/revenue-by-event", a.RevenueByEvent)

	// Photographer moderation.
	g.GET("/photographers", a.ListPhotographers)
	g.PATCH("/photographers/:id/status", a.SetPhotographerStatus)

	// Counter repair: recompute photo counters from the photos table.
	g.POST("/recount-photos", a.RecountPhotoCounters)

	// Event management.  Browsing is public; mutation is admin-only.
	g.POST("/events", ev.Create)
	g.PATCH("/events/:id", ev.Update)
	g.DELETE("/events/:id", ev.Delete)
}
