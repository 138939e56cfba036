package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskrewards-platform/pkg/config"
	"taskrewards-platform/pkg/db"
	"taskrewards-platform/pkg/db/migrate"
	"taskrewards-platform/pkg/logger"
	"taskrewards-platform/services/assignment"
	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/messaging"
	"taskrewards-platform/services/product"
	"taskrewards-platform/services/settings"
	"taskrewards-platform/services/user"
	"taskrewards-platform/services/voucher"
	"taskrewards-platform/services/withdrawal"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		fx.Invoke(runMigrations),
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

func runMigrations(gormDB *gorm.DB, shutdowner fx.Shutdowner) error {
	err := migrate.Run(gormDB,
		&user.User{},
		&product.Product{},
		&assignment.Assignment{},
		&ledger.BalanceEvent{},
		&withdrawal.Withdrawal{},
		&settings.LevelSetting{},
		&settings.CommissionRate{},
		&voucher.Voucher{},
		&messaging.Popup{},
		&messaging.Notification{},
	)
	if err != nil {
		zap.L().Error("migration failed", zap.Error(err))
		return err
	}
	return shutdowner.Shutdown()
}
