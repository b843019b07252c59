package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parksmart-reservation/internal/logger"
    "github.com/iliyamo/parksmart-reservation/internal/middleware"
    "github.com/iliyamo/parksmart-reservation/internal/model"
    "github.com/iliyamo/parksmart-reservation/internal/service"
)

// ContactHandler accepts contact form submissions and lists them for
// signed-in operators.
type ContactHandler struct {
    Contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
    return &ContactHandler{Contacts: contacts}
}

type contactReq struct {
    Name    string `json:"name" validate:"required,min=2"`
    Email   string `json:"email" validate:"required,email"`
    Message string `json:"message" validate:"required,min=10"`
}

// Submit: POST /api/contact
func (h *ContactHandler) Submit(c echo.Context) error {
    var req contactReq
    if ok, err := bindValid(c, &req, "Invalid form data"); !ok {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    if _, err := h.Contacts.Submit(ctx, model.NewContact{
        Name:    req.Name,
        Email:   strings.TrimSpace(req.Email),
        Message: req.Message,
    }); err != nil {
        return respondError(c, err, "Failed to submit contact form")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Contact form submitted successfully"})
}

// List: GET /api/contacts (JWT)
func (h *ContactHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    cs, err := h.Contacts.List(ctx)
    if err != nil {
        return respondError(c, err, "Failed to fetch contacts")
    }
    if id, ok := middleware.UserID(c); ok {
        logger.InfoContext(ctx, "contacts listed",
            "operator_id", id, "operator", middleware.Username(c), "count", len(cs))
    }
    return c.JSON(http.StatusOK, cs)
}
