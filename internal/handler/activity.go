package handler

import (
    "context"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parksmart-reservation/internal/repository"
)

const maxActivityLimit = 100

// Activities: GET /api/activities?limit=N, newest first.
func (h *ParkingHandler) Activities(c echo.Context) error {
    limit := parseLimit(c.QueryParam("limit"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    acts, err := h.Spots.Activities(ctx, limit)
    if err != nil {
        return respondError(c, err, "Failed to fetch activities")
    }
    return c.JSON(http.StatusOK, acts)
}

// parseLimit falls back to the default for missing, malformed or
// non-positive values and caps the result.
func parseLimit(raw string) int {
    n, err := strconv.Atoi(raw)
    if err != nil || n <= 0 {
        return repository.DefaultActivityLimit
    }
    if n > maxActivityLimit {
        return maxActivityLimit
    }
    return n
}
