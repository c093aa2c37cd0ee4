// This file defines handlers for browsing showtimes and the per-show
// seat map. The seat map view is the read side of the booking flow: it
// reports each seat's resolved price and whether a confirmed or still
// pending booking currently blocks it.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/model"
	"github.com/moviebook/movie-ticket-booking/internal/repository"
)

// ShowHandler serves showtime listings, show detail and the seat map.
type ShowHandler struct {
	ShowRepo    *repository.ShowRepo
	SeatRepo    *repository.SeatRepo
	BookingRepo *repository.BookingRepo
}

// NewShowHandler constructs a ShowHandler.
func NewShowHandler(showRepo *repository.ShowRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo) *ShowHandler {
	if showRepo == nil || seatRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewShowHandler")
	}
	return &ShowHandler{ShowRepo: showRepo, SeatRepo: seatRepo, BookingRepo: bookingRepo}
}

// ListShowsByMovie handles GET /v1/movies/:id/shows. Only active shows
// whose slot has not yet started are returned, ordered by date and time.
func (h *ShowHandler) ListShowsByMovie(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	now := time.Now().UTC()
	listings, err := h.ShowRepo.ListUpcomingByMovie(
		c.Request().Context(), movieID,
		now.Format("2006-01-02"), now.Format("15:04:05"),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": listings})
}

// GetShow handles GET /v1/shows/:id. The response joins movie, theater
// and screen details and includes the derived available seat count.
func (h *ShowHandler) GetShow(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	show, err := h.ShowRepo.GetByID(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}
	listing, err := h.ShowRepo.ListingByID(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	available, err := h.ShowRepo.AvailableSeats(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show":            listing,
		"available_seats": available,
		"is_past":         show.IsPast(time.Now().UTC()),
	})
}

// seatMapEntry is one seat in the seat map response.
type seatMapEntry struct {
	ID           uint64 `json:"id"`
	SeatNumber   string `json:"seat_number"`
	Column       uint32 `json:"column"`
	Category     string `json:"category"`
	ColorCode    string `json:"color_code"`
	PriceCents   uint32 `json:"price_cents"`
	IsBooked     bool   `json:"is_booked"`
	IsAccessible bool   `json:"is_accessible"`
}

// SeatLayout handles GET /v1/shows/:id/seats. Seats are grouped by row
// label in display order; each seat carries its resolved price and
// whether a blocking booking currently holds it. The view is advisory:
// the authoritative availability check happens inside the booking
// transaction.
func (h *ShowHandler) SeatLayout(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	show, err := h.ShowRepo.GetByID(ctx, showID)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !show.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}

	seats, err := h.SeatRepo.ListByScreen(ctx, show.ScreenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	blocked, err := h.BookingRepo.BlockedSeatIDs(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	overrides, err := h.ShowRepo.PricingOverrides(ctx, showID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	catIDs := make([]uint64, 0, 4)
	seen := make(map[uint64]struct{}, 4)
	for _, s := range seats {
		if _, ok := seen[s.CategoryID]; !ok {
			seen[s.CategoryID] = struct{}{}
			catIDs = append(catIDs, s.CategoryID)
		}
	}
	categories, err := h.SeatRepo.CategoriesByID(ctx, catIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Seats arrive ordered by row then column, so rows come out in
	// display order by appending on first sight of each label.
	rowOrder := make([]string, 0, 16)
	rows := make(map[string][]seatMapEntry, 16)
	for _, s := range seats {
		cat := categories[s.CategoryID]
		entry := seatMapEntry{
			ID:           s.ID,
			SeatNumber:   s.SeatNumber,
			Column:       s.Column,
			Category:     cat.Name,
			ColorCode:    cat.ColorCode,
			PriceCents:   model.ResolveSeatPrice(overrides, s.CategoryID, show.BasePriceCents),
			IsBooked:     blocked[s.ID],
			IsAccessible: s.IsAccessible,
		}
		if _, ok := rows[s.Row]; !ok {
			rowOrder = append(rowOrder, s.Row)
		}
		rows[s.Row] = append(rows[s.Row], entry)
	}

	type rowEntry struct {
		Row   string         `json:"row"`
		Seats []seatMapEntry `json:"seats"`
	}
	layout := make([]rowEntry, 0, len(rowOrder))
	for _, label := range rowOrder {
		layout = append(layout, rowEntry{Row: label, Seats: rows[label]})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":          showID,
		"base_price_cents": show.BasePriceCents,
		"rows":             layout,
	})
}
