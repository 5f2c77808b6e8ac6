package redis

import (
	"context"

	"document-storage-server/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewClient connects to redis. Returns nil when redis is unreachable so the
// service can run cache-less.
func NewClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: config.AppConfig.RedisAddress,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Warn().Err(err).Msg("Redis not available. Running without cache.")
		return nil
	}

	log.Info().Str("addr", config.AppConfig.RedisAddress).Msg("Redis connected")
	return client
}
