// Package backend opens the task store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"io"

	"tugas/internal/backend/firestore"
	"tugas/internal/backend/googletasks"
	"tugas/internal/backend/redisstore"
	"tugas/internal/backend/sqlstore"
	"tugas/internal/config"
	"tugas/internal/service"
)

// Store is a task store that holds a connection.
type Store interface {
	service.Store
	io.Closer
}

// Open connects to the backend named by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	log := cfg.Logger().WithField("backend", cfg.Backend)
	log.Debug("opening task store")

	switch cfg.Backend {
	case config.BackendFirestore:
		return firestore.New(ctx, cfg)
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg)
	case config.BackendRedis:
		return redisstore.New(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case config.BackendPostgres:
		return sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DatabaseURL)
	case config.BackendMySQL:
		return sqlstore.Open(ctx, sqlstore.DriverMySQL, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
}
