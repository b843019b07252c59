package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parksmart-reservation/internal/metrics"
)

// Health is a liveness probe.  It does not touch the store.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Metrics exposes the Prometheus registry.
var Metrics = echo.WrapHandler(metrics.Handler())
