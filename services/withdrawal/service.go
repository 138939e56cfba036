package withdrawal

import (
	"context"
	"fmt"
	"time"

	"taskrewards-platform/pkg/db/option"
	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/money"
	"taskrewards-platform/pkg/repository"
	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/user"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	node   *snowflake.Node
	ledger *ledger.Service
	users  *user.Service

	rows repository.Repository[Withdrawal]
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Ledger *ledger.Service
	Users  *user.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:     p.DB,
		node:   p.Node,
		ledger: p.Ledger,
		users:  p.Users,

		rows: repository.ProvideStore[Withdrawal](p.DB),
	}
}

// Request creates a pending withdrawal. The wallet is only debited when an
// admin approves, but the requested amount must be covered right now.
func (s *Service) Request(ctx context.Context, userID string, amount decimal.Decimal, walletAddress string) (*Withdrawal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errutil.ValidationFailed("Amount must be positive", nil)
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	amount = money.Round2(amount)
	if amount.GreaterThan(u.WalletBalance) {
		return nil, errutil.Conflict("Insufficient balance", nil, errutil.WithExtra(map[string]any{
			"required":       amount,
			"currentBalance": u.WalletBalance,
		}))
	}

	if walletAddress == "" {
		walletAddress = u.WalletAddress
	}

	row := Withdrawal{
		ID:            s.node.Generate().String(),
		UserID:        u.ID,
		Username:      u.Username,
		Amount:        amount,
		WalletAddress: walletAddress,
		Status:        StatusPending,
		RequestDate:   time.Now(),
	}
	if err := s.rows.Create(ctx, &row); err != nil {
		return nil, err
	}

	zap.L().Info("withdrawal requested",
		zap.String("user_id", u.ID),
		zap.String("amount", amount.String()))
	return &row, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Withdrawal, error) {
	return s.rows.Find(ctx, &Withdrawal{UserID: userID},
		option.WithSortBy(option.QuerySortBy{SortBy: "request_date", OrderBy: "DESC", Allow: map[string]bool{"request_date": true}}))
}

func (s *Service) List(ctx context.Context) ([]Withdrawal, error) {
	return s.rows.Find(ctx, &Withdrawal{},
		option.WithSortBy(option.QuerySortBy{SortBy: "request_date", OrderBy: "DESC", Allow: map[string]bool{"request_date": true}}))
}

// Approve debits the wallet through the ledger and marks the row processed.
// The status flip is conditional on the row still being pending, so two
// racing approvals cannot debit twice.
func (s *Service) Approve(ctx context.Context, id, notes string) (*Withdrawal, error) {
	row, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Withdrawal{}).
			Where("id = ? AND status = ?", id, StatusPending).
			Updates(map[string]any{
				"status":         StatusApproved,
				"processed_date": time.Now(),
				"admin_notes":    notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errutil.Conflict("Withdrawal already processed", nil)
		}

		details := fmt.Sprintf("Withdrawal %s approved", id)
		return s.ledger.ApplyDelta(ctx, tx, row.UserID, row.Amount.Neg(), ledger.EventManualAdjustment, time.Now().Format("2006-01-02"), details)
	})
	if err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Reject marks the row processed without touching the wallet.
func (s *Service) Reject(ctx context.Context, id, notes string) (*Withdrawal, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&Withdrawal{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":         StatusRejected,
			"processed_date": time.Now(),
			"admin_notes":    notes,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errutil.Conflict("Withdrawal already processed", nil)
	}
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id string) (*Withdrawal, error) {
	row, err := s.rows.FindOne(ctx, &Withdrawal{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errutil.NotFound("Withdrawal not found", nil)
	}
	return row, nil
}
