package middleware

import (
    "context"
    "errors"
    "log/slog"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/voyager-trip-planner/internal/model"
    "github.com/iliyamo/voyager-trip-planner/internal/service"
)

// Authenticator resolves a raw bearer token to the calling user.
type Authenticator interface {
    Authenticate(ctx context.Context, rawToken string) (model.Identity, error)
}

// Authenticate returns an Echo middleware that reads the bearer token from
// the Authorization header, resolves it and stores the caller identity in
// the context.  A missing, malformed, expired or orphaned token gets the
// same 401 response; only a store failure is reported as 500.
func Authenticate(auth Authenticator, logger *slog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            who, err := auth.Authenticate(c.Request().Context(), BearerToken(c.Request()))
            if err != nil {
                if errors.Is(err, service.ErrStore) {
                    logger.Error("authenticate failed", "path", c.Request().URL.Path, "error", err)
                    return c.JSON(http.StatusInternalServerError, echo.Map{"error": service.Message(err)})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": service.Message(err)})
            }
            SetUser(c, who)
            return next(c)
        }
    }
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.  It returns "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
    h := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
    scheme, token, ok := strings.Cut(h, " ")
    if !ok || !strings.EqualFold(scheme, "Bearer") {
        return ""
    }
    return strings.TrimSpace(token)
}
