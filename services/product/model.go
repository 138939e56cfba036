package product

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Product struct {
	ID          string          `gorm:"column:id;primaryKey" json:"id"`
	Name        string          `gorm:"column:name" json:"name"`
	ImagePath   string          `gorm:"column:image_path" json:"image_path"`
	Level1Price decimal.Decimal `gorm:"column:level1_price;type:decimal(12,2)" json:"level1_price"`
	Level2Price decimal.Decimal `gorm:"column:level2_price;type:decimal(12,2)" json:"level2_price"`
	Level3Price decimal.Decimal `gorm:"column:level3_price;type:decimal(12,2)" json:"level3_price"`
	Level4Price decimal.Decimal `gorm:"column:level4_price;type:decimal(12,2)" json:"level4_price"`
	Level5Price decimal.Decimal `gorm:"column:level5_price;type:decimal(12,2)" json:"level5_price"`
	Status      string          `gorm:"column:status;index" json:"status"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// PriceForLevel returns the price column for the user's level, falling
// back to the level-1 price when that column is unset. Callers validate
// that the result is positive.
func (p *Product) PriceForLevel(level int) decimal.Decimal {
	var price decimal.Decimal
	switch level {
	case 2:
		price = p.Level2Price
	case 3:
		price = p.Level3Price
	case 4:
		price = p.Level4Price
	case 5:
		price = p.Level5Price
	default:
		price = p.Level1Price
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return p.Level1Price
	}
	return price
}
