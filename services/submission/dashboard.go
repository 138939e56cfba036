package submission

import (
	"context"

	"taskrewards-platform/pkg/money"
	"taskrewards-platform/services/assignment"
	"taskrewards-platform/services/settings"
	"taskrewards-platform/services/user"

	"github.com/shopspring/decimal"
)

// TaskView is an assignment joined with its product and the price the task
// pays for the viewing user's level.
type TaskView struct {
	assignment.Assignment
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Price        decimal.Decimal `json:"price"`
}

type DashboardView struct {
	User           *user.User             `json:"user"`
	LevelSetting   *settings.LevelSetting `json:"level_setting"`
	CommissionRate decimal.Decimal        `json:"commission_rate"`
	TodayTasks     []TaskView             `json:"today_tasks"`
	CompletedToday int                    `json:"completed_today"`
	CanUpgrade     bool                   `json:"can_upgrade"`
}

func (s *Service) Dashboard(ctx context.Context, userID string) (*DashboardView, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	setting, err := s.settings.LevelSettingFor(ctx, u.Level)
	if err != nil {
		return nil, err
	}
	rate, err := s.settings.RateFor(ctx, u.Level)
	if err != nil {
		return nil, err
	}

	var rows []assignment.Assignment
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND assigned_date = ?", userID, today()).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	tasks, err := s.taskViews(ctx, rows, u.Level)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, row := range rows {
		if row.Status == assignment.StatusCompleted {
			completed++
		}
	}

	canUpgrade := setting.TotalTasksRequired > 0 &&
		u.TasksCompletedAtLevel >= setting.TotalTasksRequired

	return &DashboardView{
		User:           u,
		LevelSetting:   setting,
		CommissionRate: rate,
		TodayTasks:     tasks,
		CompletedToday: completed,
		CanUpgrade:     canUpgrade,
	}, nil
}

// History returns the user's last 100 assignments, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]TaskView, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []assignment.Assignment
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.taskViews(ctx, rows, u.Level)
}

func (s *Service) taskViews(ctx context.Context, rows []assignment.Assignment, level int) ([]TaskView, error) {
	views := make([]TaskView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	byID, err := s.productMap(ctx, rows)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		view := TaskView{Assignment: rows[i], Price: money.Round2(decimal.Zero)}
		if p, ok := byID[rows[i].ProductID]; ok {
			view.ProductName = p.Name
			view.ProductImage = p.ImagePath
			view.Price = s.effectivePrice(&rows[i], p, level)
		}
		views = append(views, view)
	}
	return views, nil
}
