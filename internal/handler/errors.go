package handler

import (
    "errors"
    "log/slog"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/voyager-trip-planner/internal/service"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
    switch {
    case errors.Is(err, service.ErrValidation):
        return http.StatusBadRequest
    case errors.Is(err, service.ErrConflict):
        return http.StatusConflict
    case errors.Is(err, service.ErrUnauthorized):
        return http.StatusUnauthorized
    case errors.Is(err, service.ErrNotFound):
        return http.StatusNotFound
    default:
        return http.StatusInternalServerError
    }
}

// respondError writes err as {"error": message}.  Server-side failures are
// logged with their cause; clients only see the safe message.
func respondError(c echo.Context, logger *slog.Logger, err error) error {
    status := statusFor(err)
    if status == http.StatusInternalServerError {
        logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
    }
    return c.JSON(status, echo.Map{"error": service.Message(err)})
}

func badBody(c echo.Context) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}
