package settings

import (
	"github.com/shopspring/decimal"
)

type LevelSetting struct {
	Level                int             `gorm:"column:level;primaryKey" json:"level"`
	DailyTaskLimit       int             `gorm:"column:daily_task_limit" json:"daily_task_limit"`
	TotalTasksRequired   int             `gorm:"column:total_tasks_required" json:"total_tasks_required"`
	MinWithdrawalBalance decimal.Decimal `gorm:"column:min_withdrawal_balance;type:decimal(12,2)" json:"min_withdrawal_balance"`
	MaxWithdrawalAmount  decimal.Decimal `gorm:"column:max_withdrawal_amount;type:decimal(12,2)" json:"max_withdrawal_amount"`
}

func (LevelSetting) TableName() string {
	return "level_settings"
}

type CommissionRate struct {
	Level int             `gorm:"column:level;primaryKey" json:"level"`
	Rate  decimal.Decimal `gorm:"column:rate;type:decimal(6,4)" json:"rate"`
}

func (CommissionRate) TableName() string {
	return "commission_rates"
}

// DefaultCommissionRate applies when a level has no configured rate.
var DefaultCommissionRate = decimal.New(5, -2)

// DefaultDailyTaskLimit applies when a level has no configured setting.
const DefaultDailyTaskLimit = 1

// Defaults returns the rows seeded on a fresh install.
func Defaults() ([]LevelSetting, []CommissionRate) {
	levels := []LevelSetting{
		{Level: 1, DailyTaskLimit: 1, TotalTasksRequired: 30, MinWithdrawalBalance: decimal.RequireFromString("50.00"), MaxWithdrawalAmount: decimal.RequireFromString("500.00")},
		{Level: 2, DailyTaskLimit: 2, TotalTasksRequired: 40, MinWithdrawalBalance: decimal.RequireFromString("100.00"), MaxWithdrawalAmount: decimal.RequireFromString("1000.00")},
		{Level: 3, DailyTaskLimit: 3, TotalTasksRequired: 50, MinWithdrawalBalance: decimal.RequireFromString("200.00"), MaxWithdrawalAmount: decimal.RequireFromString("2000.00")},
		{Level: 4, DailyTaskLimit: 4, TotalTasksRequired: 60, MinWithdrawalBalance: decimal.RequireFromString("500.00"), MaxWithdrawalAmount: decimal.RequireFromString("5000.00")},
		{Level: 5, DailyTaskLimit: 5, TotalTasksRequired: 0, MinWithdrawalBalance: decimal.RequireFromString("1000.00"), MaxWithdrawalAmount: decimal.RequireFromString("10000.00")},
	}
	rates := make([]CommissionRate, 0, 5)
	for lvl := 1; lvl <= 5; lvl++ {
		rates = append(rates, CommissionRate{Level: lvl, Rate: DefaultCommissionRate})
	}
	return levels, rates
}
