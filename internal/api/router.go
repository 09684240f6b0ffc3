// Package api assembles the tasktrack HTTP API.
//
// @title        tasktrack API
// @version      1.0
// @description  Accounts, cookie sessions and per-user todos.
// @BasePath     /api
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/tasktrack/tasktrack/internal/api/docs"
	"github.com/tasktrack/tasktrack/internal/api/handler"
	"github.com/tasktrack/tasktrack/internal/api/metrics"
	"github.com/tasktrack/tasktrack/internal/api/middleware"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Accounts ports.AccountService
	Todos    ports.TodoService
	Sessions ports.SessionIssuer
	Cookie   handler.CookieConfig
	// Health lists the stores checked by the readiness probe, by name.
	Health map[string]handler.Pinger
	// AllowOrigins enables credentialed CORS for browser front ends.
	AllowOrigins []string
	Logger       zerolog.Logger
	// Registry receives the HTTP and custom metrics. A fresh registry is
	// created when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if err := metrics.Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	promMW, err := echoprometheus.MiddlewareConfig{
		Subsystem:  "tasktrack",
		Registerer: reg,
		Skipper:    skipProbes,
	}.ToMiddleware()
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(promMW)
	if len(d.AllowOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     d.AllowOrigins,
			AllowCredentials: true,
		}))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Accounts, d.Sessions, d.Cookie, d.Logger.With().Str("component", "auth").Logger())
	todoHandler := handler.NewTodoHandler(d.Todos, d.Logger.With().Str("component", "todos").Logger())
	healthHandler := handler.NewHealthHandler(d.Health)
	session := middleware.Session(middleware.SessionConfig{
		CookieName: d.Cookie.Name,
		Sessions:   d.Sessions,
		Accounts:   d.Accounts,
		Logger:     d.Logger,
	})
	requireSession := middleware.RequireSession()

	// --- Auth routes ---
	api := e.Group("/api", session)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)
	auth.GET("/check-username/:username", authHandler.CheckUsername)
	auth.GET("/check-email/:email", authHandler.CheckEmail)
	auth.PUT("/profile", authHandler.UpdateProfile, requireSession)
	auth.PUT("/change-password", authHandler.ChangePassword, requireSession)

	// --- Todo routes ---
	todos := api.Group("/todos", requireSession)
	todos.GET("", todoHandler.List)
	todos.POST("", todoHandler.Create)
	todos.PUT("/:id", todoHandler.Update)
	todos.DELETE("/:id", todoHandler.Delete)
	todos.PUT("/:id/toggle", todoHandler.Toggle)

	// --- Operational routes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func skipProbes(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
