package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/model"
	"github.com/acutialens/photo-marketplace/internal/repository"
)

// AdminHandler bundles the admin-only reporting and moderation
// endpoints.  Role enforcement lives in the router; every method here
// assumes an ADMIN caller.
type AdminHandler struct {
	Stats         *repository.StatsRepo
	Photographers *repository.PhotographerRepo
	Photos        *repository.PhotoRepo
}

func NewAdminHandler(s *repository.StatsRepo, ph *repository.PhotographerRepo, p *repository.PhotoRepo) *AdminHandler {
	return &AdminHandler{Stats: s, Photographers: ph, Photos: p}
}

// PlatformStats returns the dashboard counters and total approved
// revenue.
func (h *AdminHandler) PlatformStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	stats, err := h.Stats.GetPlatformStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

// RevenueByEvent returns approved revenue grouped by event, highest
// first.
func (h *AdminHandler) RevenueByEvent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	rows, err := h.Stats.RevenueByEvent(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load revenue failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows, "total": len(rows)})
}

// ListPhotographers returns every photographer with account details
// for the moderation screen.
func (h *AdminHandler) ListPhotographers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rows, err := h.Photographers.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list photographers failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows, "total": len(rows)})
}

type photographerStatusReq struct {
	Status string `json:"status"` // PENDING | APPROVED | REJECTED
}

// SetPhotographerStatus moves a photographer between moderation
// states.  Approval is what unlocks uploading.
func (h *AdminHandler) SetPhotographerStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photographer id"})
	}
	var req photographerStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case model.PhotographerPending, model.PhotographerApproved, model.PhotographerRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be PENDING, APPROVED or REJECTED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Photographers.UpdateStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photographer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}

// RecountPhotoCounters recomputes every event and photographer photo
// counter from the photos table.  Idempotent; safe to run whenever
// the incremental counters are suspected to have drifted.
func (h *AdminHandler) RecountPhotoCounters(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()
	events, photographers, err := h.Photos.RecountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "recount failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"events_updated":        events,
		"photographers_updated": photographers,
	})
}
