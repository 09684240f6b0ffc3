package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

// RequireSession rejects requests that Session left anonymous with
// domain.ErrNotAuthenticated, which the error handler renders as 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, _ := c.Get(KeyUserID).(string); id == "" {
				return domain.ErrNotAuthenticated
			}
			return next(c)
		}
	}
}
