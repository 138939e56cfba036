package migrate

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run applies the versioned schema migrations. Models carry their own
// index definitions, so the initial migration is a plain AutoMigrate of
// every registered model; schema changes after release get their own
// migration entry.
func Run(db *gorm.DB, models ...any) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250801000001_init",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(models...)
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return err
	}
	zap.L().Info("database migrations applied")
	return nil
}
