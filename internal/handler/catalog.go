// This file defines handlers for the public movie catalog. These routes
// let unauthenticated users browse the movie listing and open a movie's
// detail page with its reviews. Responses expose only display-safe fields.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/model"
	"github.com/moviebook/movie-ticket-booking/internal/repository"
)

// CatalogHandler serves the public movie listing and detail endpoints.
type CatalogHandler struct {
	MovieRepo *repository.MovieRepo
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(movieRepo *repository.MovieRepo) *CatalogHandler {
	if movieRepo == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{MovieRepo: movieRepo}
}

// movieItem is a movie as exposed in list responses.
type movieItem struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	DurationMin uint32   `json:"duration_min"`
	ReleaseDate string   `json:"release_date"`
	Rating      float64  `json:"rating"`
	Certificate string   `json:"certificate"`
	Genres      []string `json:"genres"`
	Languages   []string `json:"languages"`
	IsFeatured  bool     `json:"is_featured"`
}

// movieDetail extends movieItem with the long-form fields shown on a
// movie page.
type movieDetail struct {
	movieItem
	Description string       `json:"description"`
	Director    string       `json:"director"`
	Cast        string       `json:"cast"`
	Reviews     []reviewItem `json:"reviews"`
}

type reviewItem struct {
	Rating    uint32 `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toMovieItem(m *model.Movie) movieItem {
	return movieItem{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		DurationMin: m.DurationMin,
		ReleaseDate: m.ReleaseDate.Format("2006-01-02"),
		Rating:      float64(m.Rating) / 10.0,
		Certificate: m.Certificate,
		Genres:      m.Genres,
		Languages:   m.Languages,
		IsFeatured:  m.IsFeatured,
	}
}

// ListMovies handles GET /v1/movies. It returns all active movies with
// their genre and language names attached. With ?featured=true only
// promoted titles are returned.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	ctx := c.Request().Context()
	featured := c.QueryParam("featured") == "true"
	movies, err := h.MovieRepo.ListActive(ctx, featured)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]movieItem, 0, len(movies))
	for i := range movies {
		items = append(items, toMovieItem(&movies[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMovie handles GET /v1/movies/:id. It returns the full movie detail
// including its reviews. Inactive and unknown movies both yield 404 so
// delisted titles disappear from the public surface.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	m, err := h.MovieRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	reviews, err := h.MovieRepo.ListReviews(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	detail := movieDetail{
		movieItem:   toMovieItem(m),
		Description: m.Description,
		Director:    m.Director,
		Cast:        m.Cast,
		Reviews:     make([]reviewItem, 0, len(reviews)),
	}
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, reviewItem{
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return c.JSON(http.StatusOK, detail)
}
