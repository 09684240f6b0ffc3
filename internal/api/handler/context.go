package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tasktrack/tasktrack/internal/api/middleware"
	"github.com/tasktrack/tasktrack/internal/core/domain"
)

// ctxUserID returns the id of the session user placed in the context by the
// Session middleware, or domain.ErrNotAuthenticated.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.KeyUserID).(string)
	if id == "" {
		return "", domain.ErrNotAuthenticated
	}
	return id, nil
}

// ctxUser returns the session user, or nil for anonymous requests.
func ctxUser(c echo.Context) *domain.User {
	u, _ := c.Get(middleware.KeyUser).(*domain.User)
	return u
}

func ctxSessionID(c echo.Context) string {
	id, _ := c.Get(middleware.KeySessionID).(string)
	return id
}
