package handler

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/acutialens/photo-marketplace/internal/repository"
)

// faceSampleSize is how many candidate photos the face-search stub
// returns at most.
const faceSampleSize = 12

// SearchHandler serves the face-recognition search endpoint.  Real
// recognition is not integrated; the handler returns a random sample
// of photos with simulated match scores so clients can build against
// the final response shape.
type SearchHandler struct {
	Photos *repository.PhotoRepo
}

func NewSearchHandler(p *repository.PhotoRepo) *SearchHandler {
	return &SearchHandler{Photos: p}
}

type faceMatch struct {
	repository.PublicPhoto
	MatchScore float64 `json:"match_score"`
}

// FaceSearch returns candidate photos for a selfie lookup, optionally
// scoped to one event via ?event_id=.  Scores are simulated, highest
// first, all above the 0.65 display threshold.
func (h *SearchHandler) FaceSearch(c echo.Context) error {
	eventID, _ := strconv.ParseUint(c.QueryParam("event_id"), 10, 64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	photos, err := h.Photos.SampleByEvent(ctx, eventID, faceSampleSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "face search failed"})
	}

	matches := make([]faceMatch, 0, len(photos))
	for i, p := range photos {
		score := 0.97 - float64(i)*0.025 - rand.Float64()*0.02
		if score < 0.65 {
			score = 0.65
		}
		matches = append(matches, faceMatch{PublicPhoto: p, MatchScore: score})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     matches,
		"total":     len(matches),
		"simulated": true,
	})
}
