package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/money"
	"taskrewards-platform/pkg/repository"
	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/product"
	"taskrewards-platform/services/settings"
	"taskrewards-platform/services/user"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	ledger   *ledger.Service
	users    *user.Service
	products *product.Service
	settings *settings.Service
	picker   Picker

	rows repository.Repository[Assignment]
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Ledger   *ledger.Service
	Users    *user.Service
	Products *product.Service
	Settings *settings.Service
	Picker   Picker
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		node:     p.Node,
		ledger:   p.Ledger,
		users:    p.Users,
		products: p.Products,
		settings: p.Settings,
		picker:   p.Picker,

		rows: repository.ProvideStore[Assignment](p.DB),
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// AssignResult reports a bulk run: UsersAssigned counts every user
// processed (daily limit above zero), Assignments the rows actually
// inserted after duplicate draws are dropped.
type AssignResult struct {
	UsersAssigned int `json:"users_assigned"`
	Assignments   int `json:"assignments"`
}

// AssignDailyTasks hands out today's tasks to every active non-admin user.
// productIDs narrows the draw pool when non-empty. Each user is processed
// in its own transaction: the inserts, the idempotence check and the wallet
// debit commit or roll back together, so a crash mid-run never leaves a
// user charged without tasks. Duplicate draws hit the unique index and are
// silently dropped. The debit may drive the wallet negative.
func (s *Service) AssignDailyTasks(ctx context.Context, productIDs []string) (*AssignResult, error) {
	pool, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, errutil.BadRequest("No active products available", nil)
	}

	if len(productIDs) > 0 {
		wanted := make(map[string]bool, len(productIDs))
		for _, id := range productIDs {
			wanted[id] = true
		}
		filtered := pool[:0]
		for _, p := range pool {
			if wanted[p.ID] {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			return nil, errutil.BadRequest("No valid products selected", nil)
		}
		pool = filtered
	}

	population, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]product.Product, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	date := today()
	result := &AssignResult{}

	for i := range population {
		u := population[i]

		setting, err := s.settings.LevelSettingFor(ctx, u.Level)
		if err != nil {
			return nil, err
		}
		if setting.DailyTaskLimit <= 0 {
			continue
		}

		var inserted int
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for slot := 0; slot < setting.DailyTaskLimit; slot++ {
				p := s.picker.Pick(pool)
				row := Assignment{
					ID:           s.node.Generate().String(),
					UserID:       u.ID,
					ProductID:    p.ID,
					AssignedDate: date,
					Status:       StatusPending,
				}
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
				if res.Error != nil {
					return res.Error
				}
				inserted += int(res.RowsAffected)
			}

			debited, err := s.ledger.HasEventForDate(ctx, tx, u.ID, ledger.EventAssignmentDebit, date)
			if err != nil {
				return err
			}
			if debited {
				return nil
			}

			var todays []Assignment
			if err := tx.Where("user_id = ? AND assigned_date = ? AND is_manual = ?", u.ID, date, false).
				Find(&todays).Error; err != nil {
				return err
			}

			total := decimal.Zero
			for _, a := range todays {
				p, ok := byID[a.ProductID]
				if !ok {
					continue
				}
				total = total.Add(money.Round2(p.PriceForLevel(u.Level)))
			}
			if !total.IsPositive() {
				return nil
			}
			return s.ledger.ApplyDelta(ctx, tx, u.ID, total.Neg(), ledger.EventAssignmentDebit, date, "Daily task assignment")
		})
		if err != nil {
			return nil, err
		}

		result.UsersAssigned++
		result.Assignments += inserted
	}

	zap.L().Info("daily tasks assigned",
		zap.Int("users_assigned", result.UsersAssigned),
		zap.Int("assignments", result.Assignments))
	return result, nil
}

// AssignSingleTask gives one user one product for today, with an optional
// bonus paid on submission and an optional price override. Re-assigning an
// existing row resets it to pending and re-prices it; the wallet is adjusted
// by the difference between the new and previous base amount (price plus
// bonus), skipped when the difference falls inside the rounding deadband.
func (s *Service) AssignSingleTask(ctx context.Context, userID, productID string, manualBonus decimal.Decimal, customPrice *decimal.Decimal) (*Assignment, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Status != product.StatusActive {
		return nil, errutil.NotFound("Product not available", nil)
	}

	var price decimal.Decimal
	if customPrice != nil {
		if customPrice.LessThan(decimal.Zero) {
			return nil, errutil.ValidationFailed("Custom price must not be negative", nil)
		}
		price = money.Round2(*customPrice)
	} else {
		price = money.Round2(p.PriceForLevel(u.Level))
		if price.LessThanOrEqual(decimal.Zero) {
			return nil, errutil.ValidationFailed("Product has no valid price for this level", nil)
		}
	}
	bonus := money.Round2(manualBonus)
	if bonus.IsNegative() {
		bonus = decimal.Zero
	}
	newBase := money.Round2(price.Add(bonus))
	date := today()

	var rowID string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Assignment
		found := true
		if err := tx.Where("user_id = ? AND product_id = ? AND assigned_date = ?", userID, productID, date).
			First(&existing).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			found = false
		}

		previousBase := decimal.Zero
		if found {
			previousPrice := money.Round2(p.PriceForLevel(u.Level))
			if existing.CustomPrice != nil {
				previousPrice = *existing.CustomPrice
			}
			previousBase = money.Round2(previousPrice.Add(existing.ManualBonus))
		}

		var storedPrice *decimal.Decimal
		if customPrice != nil {
			storedPrice = &price
		}

		if found {
			rowID = existing.ID
			if err := tx.Model(&Assignment{}).Where("id = ?", existing.ID).Updates(map[string]any{
				"status":            StatusPending,
				"manual_bonus":      bonus,
				"custom_price":      storedPrice,
				"is_manual":         true,
				"amount_earned":     decimal.Zero,
				"commission_earned": decimal.Zero,
				"submitted_at":      nil,
			}).Error; err != nil {
				return err
			}
		} else {
			row := Assignment{
				ID:           s.node.Generate().String(),
				UserID:       userID,
				ProductID:    productID,
				AssignedDate: date,
				Status:       StatusPending,
				ManualBonus:  bonus,
				CustomPrice:  storedPrice,
				IsManual:     true,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			rowID = row.ID
		}

		diff := money.Round2(newBase.Sub(previousBase))
		if money.IsZeroDelta(diff) {
			return nil
		}
		details := fmt.Sprintf("Manual assignment of %s", p.Name)
		if diff.IsNegative() {
			details = fmt.Sprintf("Manual assignment adjustment refund for %s", p.Name)
		}
		return s.ledger.ApplyDelta(ctx, tx, userID, diff.Neg(), ledger.EventManualAdjustment, date, details)
	})
	if err != nil {
		return nil, err
	}

	return s.rows.FindOne(ctx, &Assignment{ID: rowID})
}

// TodayForUser returns the user's assignments for today, oldest first.
func (s *Service) TodayForUser(ctx context.Context, userID string) ([]Assignment, error) {
	var rows []Assignment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND assigned_date = ?", userID, today()).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
