package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parksmart-reservation/internal/handler"
	"github.com/iliyamo/parksmart-reservation/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: a health check for
// load balancers and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", handler.Metrics)
}

// RegisterAuth registers operator account routes.  Both are public and
// rate limited; they issue the access tokens that RegisterContact's
// protected listing requires.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterContact registers the public contact form and the operator-only
// listing of submissions.
func RegisterContact(e *echo.Echo, h *handler.ContactHandler, limit echo.MiddlewareFunc, jwtSecret string) {
	e.POST("/api/contact", h.Submit, limit)
	e.GET("/api/contacts", h.List, middleware.JWTAuth(jwtSecret))
}
