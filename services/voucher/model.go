package voucher

import (
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Voucher is a reward card admins can push to users as a popup.
type Voucher struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name" json:"name"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	ImagePath   string    `gorm:"column:image_path" json:"image_path"`
	Status      string    `gorm:"column:status" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Voucher) TableName() string {
	return "vouchers"
}
