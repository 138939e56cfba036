package ledger

import (
	"context"

	"taskrewards-platform/pkg/db/option"
	"taskrewards-platform/pkg/money"
	"taskrewards-platform/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Service is the single writer of users.wallet_balance. Every balance
// mutation goes through ApplyDelta so the event log stays a complete
// audit of the wallet.
type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	events repository.Repository[BalanceEvent]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		events: repository.ProvideStore[BalanceEvent](p.DB),
	}
}

// ApplyDelta increments the user's wallet by delta (which may be negative,
// and may drive the balance negative) and appends one BalanceEvent with the
// absolute amount. It runs on the caller's transaction handle; the caller
// owns commit and rollback.
func (s *Service) ApplyDelta(ctx context.Context, tx *gorm.DB, userID string, delta decimal.Decimal, eventType, refDate, details string) error {
	if err := tx.WithContext(ctx).Table("users").
		Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", delta)).Error; err != nil {
		return err
	}

	event := BalanceEvent{
		ID:            s.node.Generate().String(),
		UserID:        userID,
		Type:          eventType,
		Amount:        money.Round2(delta.Abs()),
		ReferenceDate: refDate,
		Details:       details,
	}
	return tx.WithContext(ctx).Create(&event).Error
}

// HasEventForDate reports whether an event of the given type was already
// recorded for the user on the reference date. Assignment debits use this
// as their idempotence guard.
func (s *Service) HasEventForDate(ctx context.Context, tx *gorm.DB, userID, eventType, refDate string) (bool, error) {
	n, err := s.events.WithTrx(tx).Count(ctx, &BalanceEvent{
		UserID: userID, Type: eventType, ReferenceDate: refDate,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListEvents returns events newest first. userID filters when non-empty.
func (s *Service) ListEvents(ctx context.Context, userID string, limit int) ([]BalanceEvent, error) {
	cond := &BalanceEvent{}
	if userID != "" {
		cond.UserID = userID
	}
	return s.events.Find(ctx, cond,
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "DESC"}),
		option.WithLimit(limit),
	)
}
