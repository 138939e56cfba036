package main

import (
	"log"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"taskrewards-platform/pkg/config"
	"taskrewards-platform/pkg/db"
	"taskrewards-platform/pkg/logger"
	"taskrewards-platform/pkg/middleware"
	"taskrewards-platform/pkg/minio"
	"taskrewards-platform/pkg/redis"
	"taskrewards-platform/pkg/server"
	"taskrewards-platform/pkg/task"
	"taskrewards-platform/pkg/token"
	"taskrewards-platform/services/admin"
	"taskrewards-platform/services/assignment"
	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/messaging"
	"taskrewards-platform/services/product"
	"taskrewards-platform/services/settings"
	"taskrewards-platform/services/submission"
	"taskrewards-platform/services/user"
	"taskrewards-platform/services/voucher"
	"taskrewards-platform/services/withdrawal"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		task.Client,
		token.Module,
		minio.Client,
		fx.Provide(
			provideTracerProvider,
			provideSnowflakeNode,
			middleware.NewAuth,
		),
		fx.Invoke(db.Otel, db.Metric),

		ledger.Module,
		settings.Module,
		product.Module,
		user.Module,
		assignment.Module,
		submission.Module,
		withdrawal.Module,
		voucher.Module,
		messaging.Module,
		admin.Module,

		settings.Gateway,
		product.Gateway,
		user.Gateway,
		assignment.Gateway,
		submission.Gateway,
		withdrawal.Gateway,
		voucher.Gateway,
		messaging.Gateway,
		admin.Gateway,

		server.ProvideHTTPServer,
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

func provideTracerProvider() trace.TracerProvider {
	return otel.GetTracerProvider()
}

func provideSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
