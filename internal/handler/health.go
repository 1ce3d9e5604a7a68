package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Version is reported by the index route.
const Version = "2.0"

// Pinger reports whether the store is reachable.
type Pinger interface {
    PingContext(ctx context.Context) error
}

// HealthHandler serves the unauthenticated status routes.
type HealthHandler struct {
    DB     Pinger
    Driver string
    Now    func() time.Time
}

func NewHealthHandler(db Pinger, driver string) *HealthHandler {
    return &HealthHandler{DB: db, Driver: driver, Now: time.Now}
}

// Index describes the service.
func (h *HealthHandler) Index(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "message":  "Voyager Trip Planner API",
        "status":   "running",
        "database": h.Driver,
        "version":  Version,
    })
}

// Health always answers 200 while the process is up and reports whether
// the database answered a ping.
func (h *HealthHandler) Health(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    status := "connected"
    if err := h.DB.PingContext(ctx); err != nil {
        status = "disconnected"
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":        "healthy",
        "database":      status,
        "database_type": h.Driver,
        "timestamp":     h.Now().UTC().Format(time.RFC3339),
    })
}
