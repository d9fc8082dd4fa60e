package db

import (
	"time"

	"backend-ecocommute/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds a client for REDIS_ADDR, or returns nil when redis is
// not configured. The connection is established lazily.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		ClientName:   "ecocommute",
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}
