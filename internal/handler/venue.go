// This file defines handlers for browsing theaters and their screens.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/repository"
)

// VenueHandler serves the public theater and screen listing endpoints.
type VenueHandler struct {
	TheaterRepo *repository.TheaterRepo
}

// NewVenueHandler constructs a VenueHandler.
func NewVenueHandler(theaterRepo *repository.TheaterRepo) *VenueHandler {
	if theaterRepo == nil {
		panic("nil repository passed to NewVenueHandler")
	}
	return &VenueHandler{TheaterRepo: theaterRepo}
}

type theaterItem struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

type screenItem struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	ScreenType string `json:"screen_type"`
	TotalSeats uint32 `json:"total_seats"`
}

// ListTheaters handles GET /v1/theaters. The optional ?city= filter
// matches the theater's city case-insensitively.
func (h *VenueHandler) ListTheaters(c echo.Context) error {
	ctx := c.Request().Context()
	theaters, err := h.TheaterRepo.ListActive(ctx, c.QueryParam("city"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]theaterItem, 0, len(theaters))
	for _, t := range theaters {
		items = append(items, theaterItem{
			ID:      t.ID,
			Name:    t.Name,
			Address: t.Address,
			City:    t.City,
			State:   t.State,
			Pincode: t.Pincode,
			Phone:   t.Phone,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListScreens handles GET /v1/theaters/:id/screens. It returns the active
// screens of a theater; an unknown or inactive theater yields 404.
func (h *VenueHandler) ListScreens(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	ctx := c.Request().Context()
	t, err := h.TheaterRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrTheaterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !t.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
	}
	screens, err := h.TheaterRepo.ListScreens(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]screenItem, 0, len(screens))
	for _, s := range screens {
		items = append(items, screenItem{
			ID:         s.ID,
			Name:       s.Name,
			ScreenType: s.ScreenType,
			TotalSeats: s.TotalSeats,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
