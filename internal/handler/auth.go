package handler

import (
    "log/slog"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/voyager-trip-planner/internal/middleware"
    "github.com/iliyamo/voyager-trip-planner/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Auth   *service.AuthService
    Driver string
    Logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, driver string, logger *slog.Logger) *AuthHandler {
    return &AuthHandler{Auth: auth, Driver: driver, Logger: logger}
}

type registerReq struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
}

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// Register creates an account.  It does not log the user in.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return badBody(c)
    }
    id, err := h.Auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
    if err != nil {
        return respondError(c, h.Logger, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message":  "User registered successfully!",
        "user_id":  id,
        "database": h.Driver,
    })
}

// Login verifies credentials and returns a 24h bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return badBody(c)
    }
    res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
    if err != nil {
        return respondError(c, h.Logger, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":    "Login successful!",
        "token":      res.Token,
        "expires_at": res.ExpiresAt,
        "user":       res.User,
        "database":   h.Driver,
    })
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
    who, ok := middleware.CurrentUser(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
    }
    return c.JSON(http.StatusOK, echo.Map{"user": who})
}
