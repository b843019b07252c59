package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parksmart-reservation/internal/handler"
)

// RegisterParking registers the dashboard endpoints.  Reads go through the
// response cache; the book and free transitions go through the rate
// limiter.
func RegisterParking(e *echo.Echo, h *handler.ParkingHandler, cache, limit echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.GET("/parking-spots", h.ListSpots, cache)
	g.GET("/parking-spots/stats", h.Stats, cache)
	g.GET("/activities", h.Activities, cache)

	g.POST("/parking-spots/book", h.Book, limit)
	g.POST("/parking-spots/free", h.Free, limit)
}
