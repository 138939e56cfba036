package main

import (
	"context"
	"log"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"taskrewards-platform/pkg/config"
	"taskrewards-platform/pkg/db"
	"taskrewards-platform/pkg/logger"
	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/settings"
	"taskrewards-platform/services/user"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		fx.Provide(provideSnowflakeNode),

		ledger.Module,
		settings.Module,
		user.Module,

		fx.Invoke(runSeed),
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
	return snowflake.NewNode(3)
}

func runSeed(users *user.Service, cfg *settings.Service, shutdowner fx.Shutdowner) error {
	ctx := context.Background()

	if err := cfg.Seed(ctx); err != nil {
		zap.L().Error("seeding level settings failed", zap.Error(err))
		return err
	}
	if err := users.Seed(ctx); err != nil {
		zap.L().Error("seeding default admin failed", zap.Error(err))
		return err
	}

	zap.L().Info("seed completed")
	return shutdowner.Shutdown()
}
