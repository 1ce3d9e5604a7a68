package middleware

import (
    "log/slog"
    "time"

    "github.com/labstack/echo/v4"
)

// RequestLogger logs each request with method, path, status, duration,
// remote IP and request id.  Handler errors are resolved first so the
// logged status is the one the client sees.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            if err := next(c); err != nil {
                c.Error(err)
            }

            req, res := c.Request(), c.Response()
            attrs := []slog.Attr{
                slog.String("method", req.Method),
                slog.String("path", req.URL.Path),
                slog.Int("status", res.Status),
                slog.Duration("duration", time.Since(start)),
                slog.String("remote", c.RealIP()),
            }
            if id := res.Header().Get(echo.HeaderXRequestID); id != "" {
                attrs = append(attrs, slog.String("request_id", id))
            }

            switch {
            case res.Status >= 500:
                logger.LogAttrs(req.Context(), slog.LevelError, "request", attrs...)
            case res.Status >= 400:
                logger.LogAttrs(req.Context(), slog.LevelWarn, "request", attrs...)
            default:
                logger.LogAttrs(req.Context(), slog.LevelInfo, "request", attrs...)
            }
            return nil
        }
    }
}
