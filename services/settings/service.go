package settings

import (
	"context"

	"taskrewards-platform/pkg/db/option"
	"taskrewards-platform/pkg/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db *gorm.DB

	levels repository.Repository[LevelSetting]
	rates  repository.Repository[CommissionRate]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db: p.DB,

		levels: repository.ProvideStore[LevelSetting](p.DB),
		rates:  repository.ProvideStore[CommissionRate](p.DB),
	}
}

// LevelSettingFor returns the configured setting for the level, or a
// default row (daily limit 1, no progression requirement) when none exists.
func (s *Service) LevelSettingFor(ctx context.Context, level int) (*LevelSetting, error) {
	row, err := s.levels.FindOne(ctx, &LevelSetting{Level: level})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &LevelSetting{Level: level, DailyTaskLimit: DefaultDailyTaskLimit}, nil
	}
	return row, nil
}

// RateFor returns the commission rate for the level, defaulting to 5%.
func (s *Service) RateFor(ctx context.Context, level int) (decimal.Decimal, error) {
	row, err := s.rates.FindOne(ctx, &CommissionRate{Level: level})
	if err != nil {
		return decimal.Zero, err
	}
	if row == nil {
		return DefaultCommissionRate, nil
	}
	return row.Rate, nil
}

func (s *Service) ListLevelSettings(ctx context.Context) ([]LevelSetting, error) {
	return s.levels.Find(ctx, &LevelSetting{}, option.WithSortBy(option.QuerySortBy{SortBy: "level", Allow: map[string]bool{"level": true}}))
}

func (s *Service) ListCommissionRates(ctx context.Context) ([]CommissionRate, error) {
	return s.rates.Find(ctx, &CommissionRate{}, option.WithSortBy(option.QuerySortBy{SortBy: "level", Allow: map[string]bool{"level": true}}))
}

// ReplaceLevelSettings upserts every row keyed on level.
func (s *Service) ReplaceLevelSettings(ctx context.Context, rows []LevelSetting) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "level"}}, UpdateAll: true}).
		Create(&rows).Error
}

// ReplaceCommissionRates upserts every row keyed on level.
func (s *Service) ReplaceCommissionRates(ctx context.Context, rows []CommissionRate) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "level"}}, UpdateAll: true}).
		Create(&rows).Error
}

// Seed installs the default rows, keeping any operator overrides.
func (s *Service) Seed(ctx context.Context) error {
	levels, rates := Defaults()
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "level"}}, DoNothing: true}).
		Create(&levels).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "level"}}, DoNothing: true}).
		Create(&rates).Error
}
