package router // package router wires middleware and HTTP routes for the API

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/voyager-trip-planner/internal/config"
	"github.com/iliyamo/voyager-trip-planner/internal/handler"
	"github.com/iliyamo/voyager-trip-planner/internal/middleware"
	"github.com/iliyamo/voyager-trip-planner/internal/service"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Logger      *slog.Logger
	Auth        *service.AuthService
	Trips       *service.TripService
	DB          handler.Pinger
	Driver      string
	CORSOrigins []string
	Cache       config.CacheConfig
	Redis       *redis.Client // nil disables the response cache
}

// New builds the Echo instance with global middleware and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(d.Logger)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, handler.NewHealthHandler(d.DB, d.Driver))
	authed := middleware.Authenticate(d.Auth, d.Logger)
	RegisterAuth(e, handler.NewAuthHandler(d.Auth, d.Driver, d.Logger), authed)
	RegisterTrips(e, handler.NewTripHandler(d.Trips, d.Driver, d.Logger), authed,
		middleware.NewRedisCache(d.Cache, d.Redis, d.Logger))
	return e
}

// RegisterRoutes registers the unauthenticated status routes.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/", h.Index)
	e.GET("/health", h.Health)
}

// RegisterAuth registers account routes.  /me requires a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authed echo.MiddlewareFunc) {
	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.GET("/me", a.Me, authed)
}

// RegisterTrips registers the trip routes behind bearer authentication.
// Only single-trip reads go through the response cache; the list changes
// with every save.
func RegisterTrips(e *echo.Echo, t *handler.TripHandler, authed, cache echo.MiddlewareFunc) {
	e.POST("/generate-trip", t.Generate, authed)
	e.POST("/save-trip", t.Save, authed)
	e.GET("/get-trips", t.List, authed)
	e.GET("/get-trip/:id", t.Get, authed, cache)
}

// errorHandler renders framework errors (unknown routes, wrong methods,
// panics) in the same {"error": ...} shape the handlers use.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		msg := "internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch status {
			case http.StatusNotFound:
				msg = "endpoint not found"
			case http.StatusMethodNotAllowed:
				msg = "method not allowed"
			case http.StatusInternalServerError:
			default:
				if m, ok := he.Message.(string); ok {
					msg = m
				} else {
					msg = http.StatusText(status)
				}
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("unhandled error", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"error": msg})
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}
