package handler

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// parseID extracts a positive uint64 path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid " + name)
    }
    return id, nil
}

// currentUser returns the subject claim stored in the context by the
// JWT middleware, or an empty string for anonymous requests.
func currentUser(c echo.Context) string {
    if v, ok := c.Get("user_id").(string); ok {
        return v
    }
    return ""
}
