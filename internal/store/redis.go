package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/peerhub/peerhub/internal/config"
	"github.com/peerhub/peerhub/internal/logger"
)

// NewConnectRedis opens a connection to the Redis instance that backs the
// profile cache and verifies it with a PING.
func NewConnectRedis(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewConnectRedis").Msg("error connecting redis (ping)")
		return nil, fmt.Errorf("error occured during redis connection: %w", err)
	}
	log.Info().Str("func", "NewConnectRedis").Msg("connected to redis successfully")

	return client, nil
}
