package assignment

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Assignment is one product task handed to a user for a given day. The
// unique index makes duplicate hand-outs of the same product on the same
// day impossible regardless of how many assigners race.
type Assignment struct {
	ID               string           `gorm:"column:id;primaryKey" json:"id"`
	UserID           string           `gorm:"column:user_id;uniqueIndex:idx_user_product_date;index" json:"user_id"`
	ProductID        string           `gorm:"column:product_id;uniqueIndex:idx_user_product_date" json:"product_id"`
	AssignedDate     string           `gorm:"column:assigned_date;uniqueIndex:idx_user_product_date" json:"assigned_date"`
	Status           string           `gorm:"column:status" json:"status"`
	AmountEarned     decimal.Decimal  `gorm:"column:amount_earned;type:decimal(12,2)" json:"amount_earned"`
	CommissionEarned decimal.Decimal  `gorm:"column:commission_earned;type:decimal(12,2)" json:"commission_earned"`
	ManualBonus      decimal.Decimal  `gorm:"column:manual_bonus;type:decimal(12,2)" json:"manual_bonus"`
	CustomPrice      *decimal.Decimal `gorm:"column:custom_price;type:decimal(12,2)" json:"custom_price"`
	IsManual         bool             `gorm:"column:is_manual" json:"is_manual"`
	SubmittedAt      *time.Time       `gorm:"column:submitted_at" json:"submitted_at"`
	CreatedAt        time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at" json:"updated_at"`
}

func (Assignment) TableName() string {
	return "user_products"
}
