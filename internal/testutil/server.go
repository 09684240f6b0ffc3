// Package testutil starts a complete tasktrack API backed by in-memory stores
// for client-side integration tests.
package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasktrack/tasktrack/internal/api"
	"github.com/tasktrack/tasktrack/internal/api/handler"
	"github.com/tasktrack/tasktrack/internal/core/service"
	"github.com/tasktrack/tasktrack/internal/infrastructure/db/memory"
	"github.com/tasktrack/tasktrack/internal/infrastructure/session"
)

// CookieName is the session cookie used by servers started here.
const CookieName = "tt_session"

// APIServer is a running API. BaseURL already ends in /api.
type APIServer struct {
	*httptest.Server
	BaseURL string
}

// NewAPIServer starts a server that is closed with the test.
func NewAPIServer(t testing.TB) *APIServer {
	t.Helper()

	sessions := memory.NewSessionStore()

	e, err := api.NewRouter(api.Deps{
		Accounts: service.NewAccountService(memory.NewUserRepository(), zerolog.Nop()).WithHashCost(bcrypt.MinCost),
		Todos:    service.NewTodoService(memory.NewTodoRepository(), zerolog.Nop()),
		Sessions: session.NewIssuer(sessions, "test-secret", time.Hour),
		Cookie:   handler.CookieConfig{Name: CookieName, TTL: time.Hour},
		Health:   map[string]handler.Pinger{"sessions": sessions},
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("start api: %v", err)
	}

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &APIServer{Server: srv, BaseURL: srv.URL + "/api"}
}
