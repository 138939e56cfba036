package admin

import (
	"context"
	"encoding/json"
	"time"

	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/product"
	"taskrewards-platform/services/user"
	"taskrewards-platform/services/withdrawal"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statsCacheKey = "admin:stats:v1"
	statsCacheTTL = 30 * time.Second
)

type Service struct {
	db     *gorm.DB
	cache  *redis.Client
	ledger *ledger.Service
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Cache  *redis.Client `optional:"true"`
	Ledger *ledger.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{db: p.DB, cache: p.Cache, ledger: p.Ledger}
}

type Stats struct {
	TotalUsers         int64           `json:"total_users"`
	ActiveToday        int64           `json:"active_today"`
	TotalBalance       decimal.Decimal `json:"total_balance"`
	TotalProducts      int64           `json:"total_products"`
	PendingWithdrawals int64           `json:"pending_withdrawals"`
	TotalCommission    decimal.Decimal `json:"total_commission"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// Stats aggregates the console's headline numbers, served from redis for
// 30 seconds at a time. A cache failure falls back to a live computation.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var cached Stats
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			zap.L().Warn("stats cache read failed", zap.Error(err))
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
				zap.L().Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *Service) computeStats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	stats := &Stats{GeneratedAt: time.Now()}

	if err := db.Model(&user.User{}).Where("is_admin = ?", false).
		Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&user.User{}).
		Where("is_admin = ? AND last_login >= ?", false, startOfDay).
		Count(&stats.ActiveToday).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&user.User{}).Where("is_admin = ?", false).
		Select("COALESCE(SUM(wallet_balance), 0)").
		Row().Scan(&stats.TotalBalance); err != nil {
		return nil, err
	}

	if err := db.Model(&product.Product{}).Where("status = ?", product.StatusActive).
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&withdrawal.Withdrawal{}).Where("status = ?", withdrawal.StatusPending).
		Count(&stats.PendingWithdrawals).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&user.User{}).Where("is_admin = ?", false).
		Select("COALESCE(SUM(commission_earned), 0)").
		Row().Scan(&stats.TotalCommission); err != nil {
		return nil, err
	}

	return stats, nil
}

// NegativeBalances lists users in the red, deepest first.
func (s *Service) NegativeBalances(ctx context.Context) ([]user.User, error) {
	var rows []user.User
	err := s.db.WithContext(ctx).
		Where("wallet_balance < 0").
		Order("wallet_balance ASC").
		Find(&rows).Error
	return rows, err
}

func (s *Service) BalanceEvents(ctx context.Context, userID string, limit int) ([]ledger.BalanceEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.ledger.ListEvents(ctx, userID, limit)
}

// Healthy reports database connectivity.
func (s *Service) Healthy(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
