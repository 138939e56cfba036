package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types. Rows are append-only; the amount is always the absolute
// value of the applied delta, the type carries the direction.
const (
	EventAssignmentDebit  = "assignment_debit"
	EventSubmissionCredit = "submission_credit"
	EventManualAdjustment = "manual_adjustment"
	EventDeposit          = "deposit"
)

type BalanceEvent struct {
	ID            string          `gorm:"column:id;primaryKey" json:"id"`
	UserID        string          `gorm:"column:user_id;index" json:"user_id"`
	Type          string          `gorm:"column:type;index" json:"type"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	ReferenceDate string          `gorm:"column:reference_date;index" json:"reference_date"`
	Details       string          `gorm:"column:details" json:"details"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (BalanceEvent) TableName() string {
	return "balance_events"
}
