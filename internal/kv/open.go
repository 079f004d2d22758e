package kv

import (
	"context"
	"fmt"
	"io"
	"strings"

	"trivia-app/internal/config"
	"trivia-app/internal/kv/redisstore"
	"trivia-app/internal/kv/sqlstore"
)

// ClosableStore is what Open hands back; callers close it on shutdown.
type ClosableStore interface {
	Store
	io.Closer
}

func Open(ctx context.Context, cfg config.Store) (ClosableStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite, "":
		return sqlstore.NewSQLiteStore(cfg.Path)
	case config.DriverPostgres:
		return sqlstore.NewPostgresStore(cfg.DSN)
	case config.DriverRedis:
		return redisstore.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
