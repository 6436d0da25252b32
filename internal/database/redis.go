package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/creditstore/backend/internal/config"
	"github.com/creditstore/backend/internal/logger"
)

// OpenRedis returns a connected client, or nil when redis is disabled or
// unreachable. Callers treat a nil client as "no cache".
func OpenRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	if !cfg.Enabled {
		log.Info("redis disabled, continuing without cache")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis connection failed, continuing without cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		rdb.Close()
		return nil
	}

	log.Info("redis connection established", zap.String("addr", cfg.Addr()))
	return rdb
}
