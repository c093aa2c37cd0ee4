package router

import (
	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints: the
// movie catalog, theaters with their screens, showtimes and the per-show
// seat map.  The optional cache middleware is applied to the whole group;
// pass nil to register the routes uncached.
func RegisterPublic(e *echo.Echo, catalog *handler.CatalogHandler, venues *handler.VenueHandler, shows *handler.ShowHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)

	g.GET("/movies", catalog.ListMovies)
	g.GET("/movies/:id", catalog.GetMovie)
	g.GET("/movies/:id/shows", shows.ListShowsByMovie)

	g.GET("/theaters", venues.ListTheaters)
	g.GET("/theaters/:id/screens", venues.ListScreens)

	g.GET("/shows/:id", shows.GetShow)
	// The seat map is public so guests can browse availability before
	// signing in to book.
	g.GET("/shows/:id/seats", shows.SeatLayout)
}
