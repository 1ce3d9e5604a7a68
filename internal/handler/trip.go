package handler

import (
    "bytes"
    "encoding/json"
    "log/slog"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/voyager-trip-planner/internal/middleware"
    "github.com/iliyamo/voyager-trip-planner/internal/model"
    "github.com/iliyamo/voyager-trip-planner/internal/service"
)

// TripHandler serves itinerary generation and the caller's saved trips.
// Every route is mounted behind middleware.Authenticate.
type TripHandler struct {
    Trips  *service.TripService
    Driver string
    Logger *slog.Logger
}

func NewTripHandler(trips *service.TripService, driver string, logger *slog.Logger) *TripHandler {
    return &TripHandler{Trips: trips, Driver: driver, Logger: logger}
}

type saveTripReq struct {
    Trip json.RawMessage `json:"trip"`
}

// Generate returns a freshly built itinerary.  Nothing is stored.
func (h *TripHandler) Generate(c echo.Context) error {
    who, _ := middleware.CurrentUser(c)
    var in model.TripInput
    if err := c.Bind(&in); err != nil {
        return badBody(c)
    }
    trip, err := h.Trips.Generate(who, in)
    if err != nil {
        return respondError(c, h.Logger, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":  "Trip generated successfully!",
        "trip":     trip,
        "database": h.Driver,
    })
}

// Save stores the trip found under "trip" for the caller.  Any owner the
// body claims is ignored.
func (h *TripHandler) Save(c echo.Context) error {
    who, _ := middleware.CurrentUser(c)
    var req saveTripReq
    if err := c.Bind(&req); err != nil {
        return badBody(c)
    }
    raw := bytes.TrimSpace(req.Trip)
    if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "trip data is required"})
    }
    var in model.TripInput
    if err := json.Unmarshal(raw, &in); err != nil {
        return badBody(c)
    }

    id, err := h.Trips.Save(c.Request().Context(), who.ID, in)
    if err != nil {
        return respondError(c, h.Logger, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message":  "Trip saved successfully!",
        "trip_id":  id,
        "database": h.Driver,
    })
}

// List returns the caller's trips, newest first, without itineraries.
func (h *TripHandler) List(c echo.Context) error {
    who, _ := middleware.CurrentUser(c)
    trips, err := h.Trips.List(c.Request().Context(), who.ID)
    if err != nil {
        return respondError(c, h.Logger, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":  "Trips retrieved successfully!",
        "trips":    trips,
        "database": h.Driver,
    })
}

// Get returns one of the caller's trips with its itinerary.  Ids that do
// not parse are treated like trips that do not exist.
func (h *TripHandler) Get(c echo.Context) error {
    who, _ := middleware.CurrentUser(c)
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        id = 0
    }
    trip, err := h.Trips.Get(c.Request().Context(), who.ID, id)
    if err != nil {
        return respondError(c, h.Logger, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":  "Trip retrieved successfully!",
        "trip":     trip,
        "database": h.Driver,
    })
}
