package user

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID                    string          `gorm:"column:id;primaryKey" json:"id"`
	Username              string          `gorm:"column:username;uniqueIndex" json:"username"`
	Email                 string          `gorm:"column:email;uniqueIndex" json:"email"`
	Password              string          `gorm:"column:password" json:"-"`
	InvitationCode        string          `gorm:"column:invitation_code" json:"invitation_code"`
	IsAdmin               bool            `gorm:"column:is_admin" json:"is_admin"`
	Level                 int             `gorm:"column:level;default:1" json:"level"`
	WalletBalance         decimal.Decimal `gorm:"column:wallet_balance;type:decimal(12,2)" json:"wallet_balance"`
	CommissionEarned      decimal.Decimal `gorm:"column:commission_earned;type:decimal(12,2)" json:"commission_earned"`
	TasksCompletedAtLevel int             `gorm:"column:tasks_completed_at_level" json:"tasks_completed_at_level"`
	TotalTasksCompleted   int             `gorm:"column:total_tasks_completed" json:"total_tasks_completed"`
	Status                string          `gorm:"column:status;default:active" json:"status"`
	CreditScore           int             `gorm:"column:credit_score;default:100" json:"credit_score"`
	PaymentName           string          `gorm:"column:payment_name" json:"payment_name"`
	CryptoWallet          string          `gorm:"column:crypto_wallet" json:"crypto_wallet"`
	WalletAddress         string          `gorm:"column:wallet_address" json:"wallet_address"`
	LastLogin             *time.Time      `gorm:"column:last_login" json:"last_login"`
	CreatedAt             time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
