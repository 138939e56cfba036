package messaging

import (
	"context"
	"fmt"
	"time"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/repository"
	"taskrewards-platform/services/user"
	"taskrewards-platform/services/voucher"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	users    *user.Service
	vouchers *voucher.Service

	popups        repository.Repository[Popup]
	notifications repository.Repository[Notification]
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Users    *user.Service
	Vouchers *voucher.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		node:     p.Node,
		users:    p.Users,
		vouchers: p.Vouchers,

		popups:        repository.ProvideStore[Popup](p.DB),
		notifications: repository.ProvideStore[Notification](p.DB),
	}
}

type PopupInput struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	URL       string `json:"url"`
	VoucherID string `json:"voucher_id"`
}

// SendPopup pushes a popup to one user. When VoucherID is set the popup
// inherits the voucher's card (title, image) and gets a congratulation
// message unless the caller wrote one.
func (s *Service) SendPopup(ctx context.Context, in PopupInput) (*Popup, error) {
	if _, err := s.users.Get(ctx, in.UserID); err != nil {
		return nil, err
	}

	row := Popup{
		ID:      s.node.Generate().String(),
		UserID:  in.UserID,
		Title:   in.Title,
		Message: in.Message,
		URL:     in.URL,
		Status:  PopupPending,
	}

	if in.VoucherID != "" {
		v, err := s.vouchers.Get(ctx, in.VoucherID)
		if err != nil {
			return nil, err
		}
		row.VoucherID = v.ID
		row.ImagePath = v.ImagePath
		if row.Title == "" {
			row.Title = v.Title
		}
		if row.Message == "" {
			row.Message = fmt.Sprintf("Congratulations! You received a voucher: %s", v.Name)
		}
	}

	if row.Title == "" {
		return nil, errutil.ValidationFailed("Popup title is required", nil)
	}

	if err := s.popups.Create(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// PendingPopups returns up to three of the user's oldest unseen popups.
func (s *Service) PendingPopups(ctx context.Context, userID string) ([]Popup, error) {
	var rows []Popup
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, PopupPending).
		Order("created_at ASC").
		Limit(3).
		Find(&rows).Error
	return rows, err
}

// ClickPopup marks the popup clicked and reports whether it was a voucher
// card. Users can only click their own popups.
func (s *Service) ClickPopup(ctx context.Context, userID, popupID string) (bool, error) {
	row, err := s.popups.FindOne(ctx, &Popup{ID: popupID})
	if err != nil {
		return false, err
	}
	if row == nil || row.UserID != userID {
		return false, errutil.NotFound("Popup not found", nil)
	}
	if row.Status != PopupPending {
		return false, errutil.Conflict("Popup already handled", nil)
	}

	if err := s.popups.Update(ctx, popupID, map[string]any{
		"status":     PopupClicked,
		"clicked_at": time.Now(),
	}); err != nil {
		return false, err
	}
	return row.VoucherID != "", nil
}

// VoucherClickView joins a clicked voucher popup with its recipient.
type VoucherClickView struct {
	Popup
	Username string `json:"username"`
	Email    string `json:"email"`
}

// VoucherClicks lists clicked voucher popups for the admin console.
func (s *Service) VoucherClicks(ctx context.Context) ([]VoucherClickView, error) {
	var rows []VoucherClickView
	err := s.db.WithContext(ctx).
		Table("popups").
		Select("popups.*, users.username AS username, users.email AS email").
		Joins("JOIN users ON users.id = popups.user_id").
		Where("popups.status = ? AND popups.voucher_id <> ''", PopupClicked).
		Order("popups.clicked_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) SendNotification(ctx context.Context, userID, title, message string) (*Notification, error) {
	if title == "" {
		return nil, errutil.ValidationFailed("Notification title is required", nil)
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	row := Notification{
		ID:      s.node.Generate().String(),
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := s.notifications.Create(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// UnreadNotifications returns up to twenty unread rows, newest first.
func (s *Service) UnreadNotifications(ctx context.Context, userID string) ([]Notification, error) {
	var rows []Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Limit(20).
		Find(&rows).Error
	return rows, err
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	row, err := s.notifications.FindOne(ctx, &Notification{ID: id})
	if err != nil {
		return err
	}
	if row == nil || row.UserID != userID {
		return errutil.NotFound("Notification not found", nil)
	}
	return s.notifications.Update(ctx, id, map[string]any{"is_read": true})
}
