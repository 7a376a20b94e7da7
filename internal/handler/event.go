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

// EventHandler bundles dependencies for event browsing and admin
// event management.
type EventHandler struct {
	Events *repository.EventRepo
}

func NewEventHandler(e *repository.EventRepo) *EventHandler {
	return &EventHandler{Events: e}
}

// List returns a paginated event listing.  Supported query
// parameters: status (ACTIVE|CLOSED), search (matches name or
// location), page, limit.
func (h *EventHandler) List(c echo.Context) error {
	page, limit := pagination(c)
	q := repository.EventSearchQuery{
		Status:   strings.TrimSpace(c.QueryParam("status")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Page:     page,
		PageSize: limit,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	events, total, err := h.Events.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search events failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":       events,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages(total, limit),
	})
}

// Get returns a single event.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, ev)
}

type createEventReq struct {
	Name         string  `json:"name"`
	Date         string  `json:"date"` // RFC 3339
	Location     string  `json:"location"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Description  *string `json:"description"`
	Status       string  `json:"status"`
}

// Create inserts a new event (admin only; enforced by the router).
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/location required"})
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be RFC 3339"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != "" && status != model.EventActive && status != model.EventClosed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACTIVE or CLOSED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	id, err := h.Events.Create(ctx, &model.Event{
		Name:         req.Name,
		Date:         date.UTC(),
		Location:     req.Location,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
		Status:       status,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusCreated, echo.Map{"id": id})
	}
	return c.JSON(http.StatusCreated, ev)
}

type updateEventReq struct {
	Name         *string `json:"name"`
	Date         *string `json:"date"`
	Location     *string `json:"location"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
}

// Update applies a partial event update (admin only).
func (h *EventHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	upd := repository.EventUpdate{
		Name:         req.Name,
		Location:     req.Location,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be RFC 3339"})
		}
		utc := date.UTC()
		upd.Date = &utc
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if status != model.EventActive && status != model.EventClosed {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACTIVE or CLOSED"})
		}
		upd.Status = &status
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Events.Update(ctx, id, upd); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"updated": true})
	}
	return c.JSON(http.StatusOK, ev)
}

// Delete removes an event (admin only).  Events that still have
// photos are protected; deleting them is a 409.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Events.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "event still has photos"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
