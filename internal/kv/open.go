package kv

import (
	"context"
	"database/sql"
	"fmt"

	"backend-ecocommute/internal/db"

	"github.com/redis/go-redis/v9"
)

// Backends carries the connections a store may be built on. Nil fields are
// backends that are not configured.
type Backends struct {
	SQLite   *sql.DB
	Redis    *redis.Client
	Postgres db.Querier
}

// Open returns the store named by backend.
func Open(ctx context.Context, backend string, b Backends) (Store, error) {
	switch backend {
	case "memory":
		return NewMemory(), nil
	case "", "sqlite":
		if b.SQLite == nil {
			return nil, fmt.Errorf("kv backend sqlite: no database")
		}
		return NewSQLite(b.SQLite)
	case "redis":
		if b.Redis == nil {
			return nil, fmt.Errorf("kv backend redis: REDIS_ADDR not set")
		}
		if err := b.Redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("kv backend redis: %w", err)
		}
		return NewRedis(b.Redis), nil
	case "postgres":
		if b.Postgres == nil {
			return nil, fmt.Errorf("kv backend postgres: POSTGRES_URL not set")
		}
		store := NewPostgres(b.Postgres)
		if err := store.Init(ctx); err != nil {
			return nil, fmt.Errorf("kv backend postgres: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown kv backend %q", backend)
	}
}
