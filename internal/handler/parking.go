package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parksmart-reservation/internal/service"
)

const requestTimeout = 5 * time.Second

// ParkingHandler serves the spot grid, its statistics and the book/free
// transitions.
type ParkingHandler struct {
    Spots *service.SpotService
}

func NewParkingHandler(spots *service.SpotService) *ParkingHandler {
    if spots == nil {
        panic("nil spot service passed to NewParkingHandler")
    }
    return &ParkingHandler{Spots: spots}
}

// ----- DTOs -----

type bookReq struct {
    SpotName      string `json:"spotName" validate:"required"`
    VehicleNumber string `json:"vehicleNumber" validate:"required,min=3"`
    Duration      *int   `json:"duration" validate:"required,min=15"`
}

type freeReq struct {
    SpotName string `json:"spotName" validate:"required"`
}

// ListSpots: GET /api/parking-spots
func (h *ParkingHandler) ListSpots(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    spots, err := h.Spots.List(ctx)
    if err != nil {
        return respondError(c, err, "Failed to fetch parking spots")
    }
    return c.JSON(http.StatusOK, spots)
}

// Stats: GET /api/parking-spots/stats
func (h *ParkingHandler) Stats(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    st, err := h.Spots.Stats(ctx)
    if err != nil {
        return respondError(c, err, "Failed to fetch parking statistics")
    }
    return c.JSON(http.StatusOK, st)
}

// Book: POST /api/parking-spots/book
func (h *ParkingHandler) Book(c echo.Context) error {
    var req bookReq
    if ok, err := bindValid(c, &req, "Invalid booking data"); !ok {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    spot, err := h.Spots.Book(ctx, service.BookRequest{
        SpotName:      req.SpotName,
        VehicleNumber: req.VehicleNumber,
        Duration:      *req.Duration,
    })
    if err != nil {
        return respondError(c, err, "Failed to book parking spot")
    }
    return c.JSON(http.StatusOK, spot)
}

// Free: POST /api/parking-spots/free
func (h *ParkingHandler) Free(c echo.Context) error {
    var req freeReq
    if ok, err := bindValid(c, &req, "Spot name is required"); !ok {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    spot, err := h.Spots.Free(ctx, req.SpotName)
    if err != nil {
        return respondError(c, err, "Failed to free parking spot")
    }
    return c.JSON(http.StatusOK, spot)
}
