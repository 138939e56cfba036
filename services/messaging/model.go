package messaging

import (
	"time"
)

const (
	PopupPending   = "pending"
	PopupClicked   = "clicked"
	PopupDismissed = "dismissed"
)

// Popup is an in-app card pushed to one user. Voucher popups carry the
// voucher's id and are reported back on click.
type Popup struct {
	ID        string     `gorm:"column:id;primaryKey" json:"id"`
	UserID    string     `gorm:"column:user_id;index" json:"user_id"`
	Title     string     `gorm:"column:title" json:"title"`
	Message   string     `gorm:"column:message" json:"message"`
	URL       string     `gorm:"column:url" json:"url"`
	ImagePath string     `gorm:"column:image_path" json:"image_path"`
	VoucherID string     `gorm:"column:voucher_id;index" json:"voucher_id"`
	Status    string     `gorm:"column:status;index" json:"status"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	ClickedAt *time.Time `gorm:"column:clicked_at" json:"clicked_at"`
}

func (Popup) TableName() string {
	return "popups"
}

type Notification struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;index" json:"user_id"`
	Title     string    `gorm:"column:title" json:"title"`
	Message   string    `gorm:"column:message" json:"message"`
	IsRead    bool      `gorm:"column:is_read" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
