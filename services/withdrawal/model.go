package withdrawal

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Withdrawal struct {
	ID            string          `gorm:"column:id;primaryKey" json:"id"`
	UserID        string          `gorm:"column:user_id;index" json:"user_id"`
	Username      string          `gorm:"column:username" json:"username"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	WalletAddress string          `gorm:"column:wallet_address" json:"wallet_address"`
	Status        string          `gorm:"column:status;index" json:"status"`
	RequestDate   time.Time       `gorm:"column:request_date" json:"request_date"`
	ProcessedDate *time.Time      `gorm:"column:processed_date" json:"processed_date"`
	AdminNotes    string          `gorm:"column:admin_notes" json:"admin_notes"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
