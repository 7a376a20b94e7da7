package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/repository"
)

// FavoriteHandler bundles dependencies for the favorites endpoints.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Photos    *repository.PhotoRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo, p *repository.PhotoRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: f, Photos: p}
}

// Toggle flips the favorite state of a photo for the caller and
// returns the resulting state.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	photoID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Photos.GetPublicByID(ctx, photoID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load photo failed"})
	}

	favorited, err := h.Favorites.Toggle(ctx, uid, photoID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle favorite failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"photo_id": photoID, "favorited": favorited})
}

// List returns the caller's favorites, newest first.
func (h *FavoriteHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	favorites, err := h.Favorites.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list favorites failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": favorites, "total": len(favorites)})
}

// Remove unfavorites a photo.  Removing a photo that was never
// favorited succeeds; the end state is the same.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	photoID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Favorites.Remove(ctx, uid, photoID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove favorite failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
