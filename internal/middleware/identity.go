package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
    ctxUserID   = "user_id"
    ctxUsername = "username"
)

// currentUserID returns the authenticated subject, or "anon" for
// unauthenticated requests.
func currentUserID(c echo.Context) string {
    if v := c.Get(ctxUserID); v != nil {
        if s, ok := v.(string); ok && s != "" { return s }
    }
    return "anon"
}

// UserID returns the numeric id of the authenticated operator.  ok is false
// when the request did not pass through JWTAuth.
func UserID(c echo.Context) (id int, ok bool) {
    s, _ := c.Get(ctxUserID).(string)
    if s == "" {
        return 0, false
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        return 0, false
    }
    return n, true
}

// Username returns the login name carried by the access token, if any.
func Username(c echo.Context) string {
    s, _ := c.Get(ctxUsername).(string)
    return s
}
