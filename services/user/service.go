package user

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"taskrewards-platform/pkg/db/option"
	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/money"
	"taskrewards-platform/pkg/repository"
	"taskrewards-platform/services/ledger"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

type Service struct {
	db     *gorm.DB
	node   *snowflake.Node
	ledger *ledger.Service

	users repository.Repository[User]
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Ledger *ledger.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:     p.DB,
		node:   p.Node,
		ledger: p.Ledger,

		users: repository.ProvideStore[User](p.DB),
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func invitationCode() string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "INV" + ms[len(ms)-6:]
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if username == "" || email == "" || password == "" {
		return nil, errutil.ValidationFailed("Username, email and password are required", nil)
	}
	if len(password) < 6 {
		return nil, errutil.ValidationFailed("Password must be at least 6 characters", nil)
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, errutil.Conflict("Username or email already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	row := User{
		ID:             s.node.Generate().String(),
		Username:       username,
		Email:          email,
		Password:       string(hash),
		InvitationCode: invitationCode(),
		Level:          1,
		Status:         StatusActive,
		CreditScore:    100,
	}
	if err := s.users.Create(ctx, &row); err != nil {
		return nil, err
	}

	zap.L().Info("user registered", zap.String("user_id", row.ID), zap.String("username", row.Username))
	return &row, nil
}

// Login accepts the username or the email as the identifier.
func (s *Service) Login(ctx context.Context, identifier, password string) (*User, error) {
	var row User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errutil.Unauthorized("Invalid credentials", nil)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(password)) != nil {
		return nil, errutil.Unauthorized("Invalid credentials", nil)
	}

	now := time.Now()
	if err := s.users.Update(ctx, row.ID, map[string]any{"last_login": now}); err != nil {
		return nil, err
	}
	row.LastLogin = &now
	return &row, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	row, err := s.users.FindOne(ctx, &User{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errutil.NotFound("User not found", nil)
	}
	return row, nil
}

type ProfileInput struct {
	PaymentName   *string `json:"payment_name"`
	CryptoWallet  *string `json:"crypto_wallet"`
	WalletAddress *string `json:"wallet_address"`
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	values := map[string]any{}
	if in.PaymentName != nil {
		values["payment_name"] = *in.PaymentName
	}
	if in.CryptoWallet != nil {
		values["crypto_wallet"] = *in.CryptoWallet
	}
	if in.WalletAddress != nil {
		values["wallet_address"] = *in.WalletAddress
	}
	if len(values) > 0 {
		if err := s.users.Update(ctx, id, values); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return errutil.ValidationFailed("Password must be at least 6 characters", nil)
	}
	row, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(row.Password), []byte(oldPassword)) != nil {
		return errutil.Unauthorized("Current password is incorrect", nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, id, map[string]any{"password": string(hash)})
}

// Deposit credits the wallet through the ledger and returns the new balance.
func (s *Service) Deposit(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errutil.ValidationFailed("Amount must be positive", nil)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return decimal.Zero, err
	}

	amount = money.Round2(amount)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.ledger.ApplyDelta(ctx, tx, id, amount, ledger.EventDeposit, today(), "User deposit")
	})
	if err != nil {
		return decimal.Zero, err
	}

	row, err := s.Get(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return row.WalletBalance, nil
}

// List returns users newest first, optionally filtered by a username/email
// substring.
func (s *Service) List(ctx context.Context, search string) ([]User, error) {
	q := s.db.WithContext(ctx).Model(&User{}).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("username LIKE ? OR email LIKE ?", like, like)
	}
	var rows []User
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActive returns active non-admin users, the daily assignment population.
func (s *Service) ListActive(ctx context.Context) ([]User, error) {
	return s.users.Find(ctx, &User{Status: StatusActive},
		option.ApplyOperator(option.Condition{Field: "is_admin", Operator: option.EQ, Value: false}))
}

// SetBalance moves the wallet to the target value by applying the signed
// difference through the ledger, so the event log stays complete.
func (s *Service) SetBalance(ctx context.Context, id string, target decimal.Decimal) (*User, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	diff := money.Round2(target.Sub(row.WalletBalance))
	if !money.IsZeroDelta(diff) {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			details := fmt.Sprintf("Admin balance set to %s", money.Round2(target))
			return s.ledger.ApplyDelta(ctx, tx, id, diff, ledger.EventManualAdjustment, today(), details)
		})
		if err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) SetCommission(ctx context.Context, id string, commission decimal.Decimal) error {
	if commission.LessThan(decimal.Zero) {
		return errutil.ValidationFailed("Commission must not be negative", nil)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Update(ctx, id, map[string]any{"commission_earned": money.Round2(commission)})
}

// SetLevel moves the user to a new level and resets the per-level task
// progress counter.
func (s *Service) SetLevel(ctx context.Context, id string, level int) error {
	if level < 1 || level > 5 {
		return errutil.ValidationFailed("Level must be between 1 and 5", nil)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Update(ctx, id, map[string]any{
		"level":                    level,
		"tasks_completed_at_level": 0,
	})
}

func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusActive && status != StatusInactive {
		return errutil.ValidationFailed("Status must be active or inactive", nil)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Update(ctx, id, map[string]any{"status": status})
}

// ResetPassword sets a new password without checking the old one. Admin only.
func (s *Service) ResetPassword(ctx context.Context, id, newPassword string) error {
	if len(newPassword) < 6 {
		return errutil.ValidationFailed("Password must be at least 6 characters", nil)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, id, map[string]any{"password": string(hash)})
}

func (s *Service) CreateAdmin(ctx context.Context, username, email, password string) (*User, error) {
	row, err := s.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, row.ID, map[string]any{"is_admin": true}); err != nil {
		return nil, err
	}
	return s.Get(ctx, row.ID)
}

// Seed ensures the default administrator account exists.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.users.FindOne(ctx, &User{Username: "admin"})
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if _, err := s.CreateAdmin(ctx, "admin", "admin@example.com", "admin123"); err != nil {
		return err
	}
	zap.L().Info("default admin account created", zap.String("username", "admin"))
	return nil
}
