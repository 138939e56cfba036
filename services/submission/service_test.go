package submission

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/services/assignment"
	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/product"
	"taskrewards-platform/services/settings"
	"taskrewards-platform/services/testutil"
	"taskrewards-platform/services/user"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      *Service
	ledger   *ledger.Service
	users    *user.Service
	products *product.Service
	settings *settings.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t,
		&user.User{}, &product.Product{}, &assignment.Assignment{},
		&ledger.BalanceEvent{}, &settings.LevelSetting{}, &settings.CommissionRate{},
	)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ledgerSvc := ledger.NewService(ledger.ServiceParams{DB: db, Node: node})
	userSvc := user.NewService(user.ServiceParams{DB: db, Node: node, Ledger: ledgerSvc})
	productSvc := product.NewService(product.ServiceParams{DB: db, Node: node})
	settingsSvc := settings.NewService(settings.ServiceParams{DB: db})

	svc := NewService(ServiceParams{
		DB: db, Ledger: ledgerSvc, Users: userSvc, Products: productSvc, Settings: settingsSvc,
	})
	return &fixture{db: db, node: node, svc: svc, ledger: ledgerSvc, users: userSvc, products: productSvc, settings: settingsSvc}
}

func (f *fixture) addUser(t *testing.T, name string, level int) *user.User {
	t.Helper()
	ctx := context.Background()
	row, err := f.users.Register(ctx, name, name+"@example.com", "secret1")
	require.NoError(t, err)
	if level != 1 {
		require.NoError(t, f.users.SetLevel(ctx, row.ID, level))
	}
	got, err := f.users.Get(ctx, row.ID)
	require.NoError(t, err)
	return got
}

func (f *fixture) addProduct(t *testing.T, name, level1, level2 string) *product.Product {
	t.Helper()
	row, err := f.products.Create(context.Background(), product.CreateInput{
		Name:        name,
		LevelPrices: [5]decimal.Decimal{d(level1), d(level2)},
	})
	require.NoError(t, err)
	return row
}

func (f *fixture) addAssignment(t *testing.T, userID, productID string, bonus decimal.Decimal) *assignment.Assignment {
	t.Helper()
	row := assignment.Assignment{
		ID:           f.node.Generate().String(),
		UserID:       userID,
		ProductID:    productID,
		AssignedDate: today(),
		Status:       assignment.StatusPending,
		ManualBonus:  bonus,
	}
	require.NoError(t, f.db.Create(&row).Error)
	return &row
}

func (f *fixture) setBalance(t *testing.T, userID, balance string) {
	t.Helper()
	require.NoError(t, f.db.Table("users").Where("id = ?", userID).
		Update("wallet_balance", d(balance)).Error)
}

func TestSubmitOneCreditMath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice", 2)
	p := f.addProduct(t, "Widget", "5.00", "10.00")
	a := f.addAssignment(t, u.ID, p.ID, decimal.Zero)
	f.setBalance(t, u.ID, "40.00")

	result, err := f.svc.SubmitOne(ctx, u.ID, a.ID)
	require.NoError(t, err)
	require.True(t, result.BaseAmount.Equal(d("10.00")))
	require.True(t, result.Commission.Equal(d("0.50")), "5%% of the level-2 price")
	require.True(t, result.Earned.Equal(d("10.50")))

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(d("50.50")), "balance %s", got.WalletBalance)
	require.True(t, got.CommissionEarned.Equal(d("0.50")))
	require.Equal(t, 1, got.TasksCompletedAtLevel)
	require.Equal(t, 1, got.TotalTasksCompleted)

	events, err := f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, ledger.EventSubmissionCredit, events[0].Type)
	require.True(t, events[0].Amount.Equal(d("10.50")))

	var row assignment.Assignment
	require.NoError(t, f.db.First(&row, "id = ?", a.ID).Error)
	require.Equal(t, assignment.StatusCompleted, row.Status)
	require.NotNil(t, row.SubmittedAt)
}

func TestSubmitOneIncludesManualBonus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice", 1)
	p := f.addProduct(t, "Widget", "8.00", "0")
	a := f.addAssignment(t, u.ID, p.ID, d("2.00"))

	result, err := f.svc.SubmitOne(ctx, u.ID, a.ID)
	require.NoError(t, err)
	require.True(t, result.BaseAmount.Equal(d("10.00")), "price + bonus")
	require.True(t, result.Commission.Equal(d("0.40")), "commission on the price only")
	require.True(t, result.Earned.Equal(d("10.40")))
	require.True(t, result.Bonus.Equal(d("2.00")))
}

func TestSubmitOneNegativeBalanceBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice", 1)
	p := f.addProduct(t, "Widget", "5.00", "0")
	a := f.addAssignment(t, u.ID, p.ID, decimal.Zero)

	f.setBalance(t, u.ID, "-0.01")
	_, err := f.svc.SubmitOne(ctx, u.ID, a.ID)
	require.Error(t, err)
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusConflict, be.Code)
	require.NotNil(t, be.Extra["shortfall"])
	require.NotNil(t, be.Extra["required"])
	require.NotNil(t, be.Extra["currentBalance"])

	// Exactly zero passes the gate.
	f.setBalance(t, u.ID, "0.00")
	_, err = f.svc.SubmitOne(ctx, u.ID, a.ID)
	require.NoError(t, err)
}

func TestSubmitOneGuardsOwnershipAndDoubleSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice", 1)
	other := f.addUser(t, "bob", 1)
	p := f.addProduct(t, "Widget", "5.00", "0")
	a := f.addAssignment(t, u.ID, p.ID, decimal.Zero)

	_, err := f.svc.SubmitOne(ctx, other.ID, a.ID)
	require.Error(t, err, "foreign rows look like missing rows")

	_, err = f.svc.SubmitOne(ctx, u.ID, "missing")
	require.Error(t, err)

	_, err = f.svc.SubmitOne(ctx, u.ID, a.ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitOne(ctx, u.ID, a.ID)
	require.Error(t, err, "completed rows are frozen")

	events, err := f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1, "no double credit")
}

func TestSubmitAllTodayConsolidatesCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice", 1)
	p1 := f.addProduct(t, "A", "5.00", "0")
	p2 := f.addProduct(t, "B", "7.00", "0")
	f.addAssignment(t, u.ID, p1.ID, decimal.Zero)
	f.addAssignment(t, u.ID, p2.ID, d("1.00"))

	result, err := f.svc.SubmitAllToday(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, result.TasksSubmitted)
	require.True(t, result.TotalPrice.Equal(d("12.00")))
	require.True(t, result.TotalManualBonus.Equal(d("1.00")))
	require.True(t, result.TotalCommission.Equal(d("0.60")), "0.25 + 0.35")
	require.True(t, result.TotalCredit.Equal(d("13.60")))

	events, err := f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1, "one consolidated event")
	require.True(t, events[0].Amount.Equal(d("13.60")))

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(d("13.60")))
	require.Equal(t, 2, got.TasksCompletedAtLevel)
	require.Equal(t, 2, got.TotalTasksCompleted)

	_, err = f.svc.SubmitAllToday(ctx, u.ID)
	require.Error(t, err, "nothing left to submit")
}

func TestSubmitAllTodayNegativeBalanceGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice", 1)
	p := f.addProduct(t, "Widget", "5.00", "0")
	f.addAssignment(t, u.ID, p.ID, decimal.Zero)
	f.setBalance(t, u.ID, "-3.00")

	_, err := f.svc.SubmitAllToday(ctx, u.ID)
	require.Error(t, err)
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusConflict, be.Code)
}

func TestDashboardView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice", 1)
	require.NoError(t, f.settings.ReplaceLevelSettings(ctx, []settings.LevelSetting{
		{Level: 1, DailyTaskLimit: 2, TotalTasksRequired: 2},
	}))
	p1 := f.addProduct(t, "A", "5.00", "0")
	p2 := f.addProduct(t, "B", "7.00", "0")
	a1 := f.addAssignment(t, u.ID, p1.ID, decimal.Zero)
	f.addAssignment(t, u.ID, p2.ID, decimal.Zero)

	view, err := f.svc.Dashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.TodayTasks, 2)
	require.Equal(t, 0, view.CompletedToday)
	require.False(t, view.CanUpgrade)
	require.True(t, view.CommissionRate.Equal(settings.DefaultCommissionRate))
	require.Equal(t, "A", view.TodayTasks[0].ProductName)
	require.True(t, view.TodayTasks[0].Price.Equal(d("5.00")))

	_, err = f.svc.SubmitOne(ctx, u.ID, a1.ID)
	require.NoError(t, err)

	view, err = f.svc.Dashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, view.CompletedToday)
	require.False(t, view.CanUpgrade)

	_, err = f.svc.SubmitAllToday(ctx, u.ID)
	require.NoError(t, err)

	view, err = f.svc.Dashboard(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, view.CompletedToday)
	require.True(t, view.CanUpgrade)
}

func TestHistoryIncludesProductInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice", 1)
	p := f.addProduct(t, "Widget", "5.00", "0")
	f.addAssignment(t, u.ID, p.ID, decimal.Zero)

	rows, err := f.svc.History(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Widget", rows[0].ProductName)
	require.True(t, rows[0].Price.Equal(d("5.00")))
}
