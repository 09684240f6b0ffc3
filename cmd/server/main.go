// Command server runs the tasktrack HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tasktrack/tasktrack/internal/api"
	"github.com/tasktrack/tasktrack/internal/api/handler"
	"github.com/tasktrack/tasktrack/internal/core/service"
	"github.com/tasktrack/tasktrack/internal/infrastructure/session"
	"github.com/tasktrack/tasktrack/internal/pkg/config"
	"github.com/tasktrack/tasktrack/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "tasktrack-api",
	})

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	e, err := api.NewRouter(api.Deps{
		Accounts: service.NewAccountService(st.users, logger.For("accounts")),
		Todos:    service.NewTodoService(st.todos, logger.For("todos")),
		Sessions: session.NewIssuer(st.sessions, cfg.Session.Secret, cfg.Session.TTL),
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure || cfg.IsProduction(),
			TTL:    cfg.Session.TTL,
		},
		Health:       st.health,
		AllowOrigins: cfg.Server.CORSOrigins,
		Logger:       logger.For("http"),
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("store", cfg.Server.StoreDriver).Msg("server listening")
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
