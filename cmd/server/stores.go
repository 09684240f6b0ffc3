package main

import (
	"context"
	"fmt"

	"github.com/tasktrack/tasktrack/internal/api/handler"
	"github.com/tasktrack/tasktrack/internal/core/ports"
	"github.com/tasktrack/tasktrack/internal/infrastructure/db/memory"
	mongostore "github.com/tasktrack/tasktrack/internal/infrastructure/db/mongo"
	redisstore "github.com/tasktrack/tasktrack/internal/infrastructure/db/redis"
	"github.com/tasktrack/tasktrack/internal/pkg/config"
	"github.com/tasktrack/tasktrack/pkg/logger"
)

// stores bundles the repositories selected by STORE_DRIVER.
type stores struct {
	users    ports.UserRepository
	todos    ports.TodoRepository
	sessions ports.SessionStore
	health   map[string]handler.Pinger
	closers  []func(context.Context) error
}

func (s *stores) close() {
	log := logger.For("stores")
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to close store")
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Server.StoreDriver == config.DriverMemory {
		sessions := memory.NewSessionStore()
		return &stores{
			users:    memory.NewUserRepository(),
			todos:    memory.NewTodoRepository(),
			sessions: sessions,
			health:   map[string]handler.Pinger{"sessions": sessions},
		}, nil
	}

	st := &stores{}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	st.closers = append(st.closers, client.Disconnect)

	users := mongostore.NewUserRepository(db)
	todos := mongostore.NewTodoRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, todos); err != nil {
		st.close()
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}

	rdb, err := redisstore.Connect(ctx, cfg.Redis)
	if err != nil {
		st.close()
		return nil, err
	}
	st.closers = append(st.closers, func(context.Context) error { return rdb.Close() })

	sessions := redisstore.NewSessionStore(rdb)
	st.users = users
	st.todos = todos
	st.sessions = sessions
	st.health = map[string]handler.Pinger{
		"mongodb": mongostore.Pinger{Client: client},
		"redis":   sessions,
	}
	return st, nil
}
