package submission

import (
	"context"
	"fmt"
	"time"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/money"
	"taskrewards-platform/services/assignment"
	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/product"
	"taskrewards-platform/services/settings"
	"taskrewards-platform/services/user"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	ledger   *ledger.Service
	users    *user.Service
	products *product.Service
	settings *settings.Service
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Ledger   *ledger.Service
	Users    *user.Service
	Products *product.Service
	Settings *settings.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		ledger:   p.Ledger,
		users:    p.Users,
		products: p.Products,
		settings: p.Settings,
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func insufficientBalance(balance, required decimal.Decimal) error {
	return errutil.Conflict("Insufficient balance", nil, errutil.WithExtra(map[string]any{
		"shortfall":      balance.Abs(),
		"required":       required,
		"currentBalance": balance,
	}))
}

type SubmitResult struct {
	Earned     decimal.Decimal `json:"earned"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	Commission decimal.Decimal `json:"commission"`
	Bonus      decimal.Decimal `json:"bonus"`
}

// SubmitOne completes a single task and credits price + bonus + commission.
// A negative wallet blocks submission until the user tops up. The status
// flip is a conditional update keyed on the prior status, so two racing
// submits of the same row cannot both be paid.
func (s *Service) SubmitOne(ctx context.Context, userID, assignmentID string) (*SubmitResult, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var row assignment.Assignment
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", assignmentID, userID).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errutil.NotFound("Task not found", nil)
		}
		return nil, err
	}
	if row.Status == assignment.StatusCompleted {
		return nil, errutil.Conflict("Task already completed", nil)
	}

	p, err := s.products.Get(ctx, row.ProductID)
	if err != nil {
		return nil, err
	}

	price := s.effectivePrice(&row, p, u.Level)
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, errutil.ValidationFailed("Task has no valid price", nil)
	}

	if u.WalletBalance.IsNegative() {
		return nil, insufficientBalance(u.WalletBalance, price)
	}

	rate, err := s.settings.RateFor(ctx, u.Level)
	if err != nil {
		return nil, err
	}

	commission := money.Round2(price.Mul(rate))
	base := money.Round2(price.Add(row.ManualBonus))
	earned := money.Round2(base.Add(commission))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&assignment.Assignment{}).
			Where("id = ? AND status <> ?", row.ID, assignment.StatusCompleted).
			Updates(map[string]any{
				"status":            assignment.StatusCompleted,
				"amount_earned":     base,
				"commission_earned": commission,
				"submitted_at":      time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errutil.Conflict("Task already completed", nil)
		}

		details := fmt.Sprintf("Task submission: %s", p.Name)
		if err := s.ledger.ApplyDelta(ctx, tx, userID, earned, ledger.EventSubmissionCredit, today(), details); err != nil {
			return err
		}

		return s.bumpCounters(ctx, tx, userID, commission, 1)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("task submitted",
		zap.String("user_id", userID),
		zap.String("assignment_id", row.ID),
		zap.String("earned", earned.String()))

	return &SubmitResult{Earned: earned, BaseAmount: base, Commission: commission, Bonus: row.ManualBonus}, nil
}

type SubmitAllResult struct {
	TasksSubmitted   int             `json:"tasks_submitted"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	TotalManualBonus decimal.Decimal `json:"total_manual_bonus"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
	TotalCredit      decimal.Decimal `json:"total_credit"`
}

// SubmitAllToday completes every pending task for today in one transaction,
// writing a single consolidated wallet credit.
func (s *Service) SubmitAllToday(ctx context.Context, userID string) (*SubmitAllResult, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []assignment.Assignment
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND assigned_date = ? AND status = ?", userID, today(), assignment.StatusPending).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errutil.Conflict("No pending tasks to submit", nil)
	}

	byID, err := s.productMap(ctx, rows)
	if err != nil {
		return nil, err
	}

	rate, err := s.settings.RateFor(ctx, u.Level)
	if err != nil {
		return nil, err
	}

	totalPrice := decimal.Zero
	for i := range rows {
		p, ok := byID[rows[i].ProductID]
		if !ok {
			continue
		}
		totalPrice = totalPrice.Add(s.effectivePrice(&rows[i], p, u.Level))
	}

	if u.WalletBalance.IsNegative() {
		return nil, insufficientBalance(u.WalletBalance, totalPrice)
	}

	result := &SubmitAllResult{
		TotalPrice:       decimal.Zero,
		TotalManualBonus: decimal.Zero,
		TotalCommission:  decimal.Zero,
		TotalCredit:      decimal.Zero,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for i := range rows {
			p, ok := byID[rows[i].ProductID]
			if !ok {
				continue
			}
			price := s.effectivePrice(&rows[i], p, u.Level)
			if price.LessThanOrEqual(decimal.Zero) {
				continue
			}

			commission := money.Round2(price.Mul(rate))
			base := money.Round2(price.Add(rows[i].ManualBonus))
			earned := money.Round2(base.Add(commission))

			res := tx.Model(&assignment.Assignment{}).
				Where("id = ? AND status <> ?", rows[i].ID, assignment.StatusCompleted).
				Updates(map[string]any{
					"status":            assignment.StatusCompleted,
					"amount_earned":     base,
					"commission_earned": commission,
					"submitted_at":      now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}

			result.TasksSubmitted++
			result.TotalPrice = result.TotalPrice.Add(price)
			result.TotalManualBonus = result.TotalManualBonus.Add(rows[i].ManualBonus)
			result.TotalCommission = result.TotalCommission.Add(commission)
			result.TotalCredit = result.TotalCredit.Add(earned)
		}

		if result.TasksSubmitted == 0 {
			return errutil.Conflict("No pending tasks to submit", nil)
		}

		details := fmt.Sprintf("Batch submission of %d tasks", result.TasksSubmitted)
		if err := s.ledger.ApplyDelta(ctx, tx, userID, result.TotalCredit, ledger.EventSubmissionCredit, today(), details); err != nil {
			return err
		}

		return s.bumpCounters(ctx, tx, userID, result.TotalCommission, result.TasksSubmitted)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("batch submitted",
		zap.String("user_id", userID),
		zap.Int("tasks", result.TasksSubmitted),
		zap.String("total_credit", result.TotalCredit.String()))
	return result, nil
}

func (s *Service) bumpCounters(ctx context.Context, tx *gorm.DB, userID string, commission decimal.Decimal, count int) error {
	return tx.WithContext(ctx).Table("users").Where("id = ?", userID).Updates(map[string]any{
		"commission_earned":        gorm.Expr("commission_earned + ?", commission),
		"tasks_completed_at_level": gorm.Expr("tasks_completed_at_level + ?", count),
		"total_tasks_completed":    gorm.Expr("total_tasks_completed + ?", count),
	}).Error
}

func (s *Service) effectivePrice(row *assignment.Assignment, p *product.Product, level int) decimal.Decimal {
	if row.CustomPrice != nil {
		return money.Round2(*row.CustomPrice)
	}
	return money.Round2(p.PriceForLevel(level))
}

func (s *Service) productMap(ctx context.Context, rows []assignment.Assignment) (map[string]*product.Product, error) {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if !seen[r.ProductID] {
			seen[r.ProductID] = true
			ids = append(ids, r.ProductID)
		}
	}

	var products []product.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}
