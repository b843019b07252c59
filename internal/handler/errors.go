package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parksmart-reservation/internal/logger"
    "github.com/iliyamo/parksmart-reservation/internal/repository"
    "github.com/iliyamo/parksmart-reservation/internal/service"
)

// respondError maps domain errors to status codes.  Anything unrecognised
// is logged and answered with a 500 carrying only fallback.
func respondError(c echo.Context, err error, fallback string) error {
    switch {
    case errors.Is(err, repository.ErrSpotNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"message": "Parking spot not found"})
    case errors.Is(err, service.ErrSpotUnavailable):
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Parking spot is not available"})
    case errors.Is(err, service.ErrSpotAlreadyAvailable):
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Parking spot is already available"})
    case errors.Is(err, repository.ErrUsernameExists):
        return c.JSON(http.StatusConflict, echo.Map{"message": "Username already exists"})
    case errors.Is(err, service.ErrInvalidCredentials):
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
    }
    logger.ErrorContext(c.Request().Context(), fallback, "error", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"message": fallback})
}
