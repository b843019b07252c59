package middleware

import (
    "context"
    "log/slog"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/iliyamo/parksmart-reservation/internal/logger"
)

// RequestID assigns every request a UUID, echoes it in X-Request-Id and
// stores it in the request context for logger.WithContext.
func RequestID() echo.MiddlewareFunc {
    return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
        Generator: uuid.NewString,
        RequestIDHandler: func(c echo.Context, id string) {
            req := c.Request()
            c.SetRequest(req.WithContext(context.WithValue(req.Context(), logger.RequestIDKey, id)))
        },
    })
}

// RequestLog writes one structured line per request.  Server errors log at
// error level, everything else at info.
func RequestLog() echo.MiddlewareFunc {
    return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        LogMethod:    true,
        LogURI:       true,
        LogRoutePath: true,
        LogStatus:    true,
        LogLatency:   true,
        LogRemoteIP:  true,
        LogRequestID: true,
        LogError:     true,
        HandleError:  true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            attrs := []slog.Attr{
                slog.String("method", v.Method),
                slog.String("uri", v.URI),
                slog.String("route", v.RoutePath),
                slog.Int("status", v.Status),
                slog.Duration("latency", v.Latency),
                slog.String("remote_ip", v.RemoteIP),
                slog.String("request_id", v.RequestID),
            }
            level := slog.LevelInfo
            if v.Error != nil {
                attrs = append(attrs, slog.String("error", v.Error.Error()))
            }
            if v.Status >= 500 {
                level = slog.LevelError
            }
            logger.Default().LogAttrs(c.Request().Context(), level, "http request", attrs...)
            return nil
        },
    })
}
