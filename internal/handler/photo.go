package handler

import (
	"context"
	"database/sql"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/model"
	"github.com/acutialens/photo-marketplace/internal/repository"
	"github.com/acutialens/photo-marketplace/internal/storage"
)

// maxUploadBytes caps a single photo upload (20 MiB).
const maxUploadBytes = 20 << 20

// PhotoHandler bundles dependencies for the photo catalog endpoints.
type PhotoHandler struct {
	Photos        *repository.PhotoRepo
	Photographers *repository.PhotographerRepo
	Store         storage.Store
}

func NewPhotoHandler(p *repository.PhotoRepo, ph *repository.PhotographerRepo, st storage.Store) *PhotoHandler {
	return &PhotoHandler{Photos: p, Photographers: ph, Store: st}
}

// Upload receives a multipart photo upload from an approved
// photographer.  The binary is persisted to storage first; only when
// storage has accepted it does the metadata transaction run, so a
// storage failure never leaves catalog rows without an asset.  If the
// metadata transaction fails instead, the freshly stored object is
// removed on a best-effort basis.
func (h *PhotoHandler) Upload(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	photographer, err := h.Photographers.RequireApproved(ctx, uid)
	if err != nil {
		if err == repository.ErrPhotographerNotApproved || err == sql.ErrNoRows {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "photographer not approved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load photographer failed"})
	}

	eventID, err := strconv.ParseUint(c.FormValue("event_id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id required"})
	}
	priceCents, err := strconv.ParseUint(c.FormValue("price_cents"), 10, 32)
	if err != nil || priceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be a positive integer"})
	}
	var tags []string
	for _, t := range strings.Split(c.FormValue("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "open upload failed"})
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	if len(data) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only image uploads are accepted"})
	}

	// Storage first.  A failure here is fatal for the request and
	// leaves no partial state behind.
	originalURL, err := h.Store.Store(ctx, data, contentType, fileHeader.Filename, "originals")
	if err != nil {
		log.Printf("photo upload: store asset failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store asset failed"})
	}
	// TODO: generate a watermarked preview for the display reference;
	// until then it reuses the original object.
	displayURL := originalURL

	record := &repository.PhotoRecord{
		EventID:        eventID,
		PhotographerID: photographer.ID,
		URL:            displayURL,
		OriginalURL:    originalURL,
		PriceCents:     uint32(priceCents),
		Tags:           tags,
	}

	tx, err := h.Photos.DB().BeginTx(ctx, nil)
	if err != nil {
		h.reclaim(originalURL)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Photos.CreateTx(ctx, tx, record); err != nil {
		h.reclaim(originalURL)
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create photo failed"})
	}
	if err := tx.Commit(); err != nil {
		h.reclaim(originalURL)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":              record.ID,
		"event_id":        record.EventID,
		"photographer_id": record.PhotographerID,
		"url":             record.URL,
		"original_url":    record.OriginalURL,
		"price_cents":     record.PriceCents,
		"tags":            record.Tags,
		"created_at":      record.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// reclaim removes an orphaned storage object after a failed metadata
// write.  Failures are logged, never surfaced: the request already
// failed and the object is merely unreferenced.
func (h *PhotoHandler) reclaim(reference string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.Store.Remove(ctx, reference); err != nil {
		log.Printf("photo upload: reclaim orphaned asset %q failed: %v", reference, err)
	}
}

// Get returns the public (redacted) view of a single photo.
func (h *PhotoHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	photo, err := h.Photos.GetPublicByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load photo failed"})
	}
	return c.JSON(http.StatusOK, photo)
}

// List returns a paginated, filterable photo listing.  Supported
// query parameters: event_id, tag, sort (recent|price_asc|price_desc),
// page, limit.
func (h *PhotoHandler) List(c echo.Context) error {
	page, limit := pagination(c)
	eventID, _ := strconv.ParseUint(c.QueryParam("event_id"), 10, 64)
	q := repository.PhotoSearchQuery{
		EventID:  eventID,
		Tag:      strings.TrimSpace(c.QueryParam("tag")),
		Sort:     c.QueryParam("sort"),
		Page:     page,
		PageSize: limit,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	photos, total, err := h.Photos.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search photos failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":       photos,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages(total, limit),
	})
}

// Delete removes a photo.  Allowed for admins and for the uploading
// photographer.  Catalog rows and counters go first, atomically; the
// stored assets are reclaimed best-effort after commit, so a storage
// hiccup can orphan a file but never corrupt the catalog.
func (h *PhotoHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Photos.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	uploaderID, eventID, url, originalURL, err := h.Photos.GetOwnershipTx(ctx, tx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load photo failed"})
	}
	if getRole(c) != model.RoleAdmin && uploaderID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed to delete this photo"})
	}

	if err := h.Photos.DeleteTx(ctx, tx, id, eventID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete photo failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// Assets after commit.  The display and original references may
	// point at the same object; Remove on an absent object is a no-op.
	h.reclaim(url)
	if originalURL != url {
		h.reclaim(originalURL)
	}

	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
