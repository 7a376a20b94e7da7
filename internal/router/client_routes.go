package router

import (
	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/handler"
	"github.com/acutialens/photo-marketplace/internal/middleware"
	"github.com/acutialens/photo-marketplace/internal/model"
)

// RegisterClient registers purchase and favorites endpoints under /v1.
// All routes require a valid JWT; any authenticated role may buy
// photos or keep favorites, photographers and admins included.
func RegisterClient(e *echo.Echo, o *handler.OrderHandler, f *handler.FavoriteHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleClient, model.RolePhotographer, model.RoleAdmin),
	)
	// Checkout: price, authorize and persist an order atomically.
	g.POST("/orders", o.Create)
	// Order history.  Detail responses include the original references
	// only when the order is APPROVED.
	g.GET("/orders", o.List)
	g.GET("/orders/:id", o.Get)

	// Favorites: toggle on a photo, list mine, remove.
	g.POST("/photos/:id/favorite", f.Toggle)
	g.GET("/favorites", f.List)
	g.DELETE("/photos/:id/favorite", f.Remove)
}
