package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"taskrewards-platform/pkg/config"
	"taskrewards-platform/pkg/db"
	"taskrewards-platform/pkg/logger"
	"taskrewards-platform/pkg/redis"
	"taskrewards-platform/pkg/task"
	"taskrewards-platform/services/assignment"
	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/product"
	"taskrewards-platform/services/settings"
	"taskrewards-platform/services/user"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		task.Client,
		task.Server,
		fx.Provide(provideSnowflakeNode),

		ledger.Module,
		settings.Module,
		product.Module,
		user.Module,
		assignment.Module,
		assignment.Worker,

		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(2)
}
