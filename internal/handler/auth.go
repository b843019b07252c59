package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parksmart-reservation/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
    return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
    Username string `json:"username" validate:"required,min=3,max=64"`
    Password string `json:"password" validate:"required,min=6,max=72"` // bcrypt input limit
}
type loginReq struct {
    Username string `json:"username" validate:"required"`
    Password string `json:"password" validate:"required"`
}

// Register: create user and return an access token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if ok, err := bindValid(c, &req, "Invalid registration data"); !ok {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    sess, err := h.Auth.Register(ctx, req.Username, req.Password)
    if err != nil {
        return respondError(c, err, "Failed to register user")
    }
    return c.JSON(http.StatusCreated, sess)
}

// Login: verify credentials and return a fresh access token.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if ok, err := bindValid(c, &req, "Invalid login data"); !ok {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    sess, err := h.Auth.Login(ctx, req.Username, req.Password)
    if err != nil {
        return respondError(c, err, "Failed to log in")
    }
    return c.JSON(http.StatusOK, sess)
}
