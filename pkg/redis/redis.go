package redis

import (
	"context"
	"os"

	"taskrewards-platform/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("redis.client", fx.Provide(registerClient))

func registerClient(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		PoolTimeout: cfg.Redis.PoolTimeout,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		zap.L().Error("[Redis] Failed to connect to Redis", zap.Error(err))
		os.Exit(1)
	}

	zap.L().Info("[Redis] Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}
