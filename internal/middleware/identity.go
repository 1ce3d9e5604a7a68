package middleware

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/voyager-trip-planner/internal/model"
)

const userKey = "user"

// SetUser stores the authenticated caller in the context.
func SetUser(c echo.Context, who model.Identity) { c.Set(userKey, who) }

// CurrentUser returns the caller stored by Authenticate.  ok is false on
// routes that are not behind it.
func CurrentUser(c echo.Context) (model.Identity, bool) {
    who, ok := c.Get(userKey).(model.Identity)
    return who, ok && who.ID != 0
}
