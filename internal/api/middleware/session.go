package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// Context keys set by Session.
const (
	KeyUserID    = "user_id"
	KeySessionID = "session_id"
	KeyUser      = "user"
)

// SessionConfig wires the Session middleware.
type SessionConfig struct {
	CookieName string
	Sessions   ports.SessionIssuer
	Accounts   ports.AccountService
	Logger     zerolog.Logger
}

// Session resolves the session cookie into the request context. Requests
// without a cookie, with a forged or revoked one, or whose user is gone or
// inactive continue anonymously; RequireSession turns those away.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			userID, sessionID, err := cfg.Sessions.Resolve(ctx, cookie.Value)
			if err != nil {
				cfg.Logger.Debug().Err(err).Msg("session cookie rejected")
				return next(c)
			}

			user, err := cfg.Accounts.Get(ctx, userID)
			if err != nil {
				cfg.Logger.Debug().Err(err).Str("user_id", userID).Msg("session user unavailable")
				return next(c)
			}

			c.Set(KeyUserID, user.ID)
			c.Set(KeySessionID, sessionID)
			c.Set(KeyUser, user)
			return next(c)
		}
	}
}
