package assignment

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

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

// seqPicker walks the pool in order so tests are deterministic.
type seqPicker struct {
	i int
}

func (p *seqPicker) Pick(pool []product.Product) product.Product {
	p.i++
	return pool[(p.i-1)%len(pool)]
}

type fixture struct {
	svc      *Service
	ledger   *ledger.Service
	users    *user.Service
	products *product.Service
	settings *settings.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t,
		&user.User{}, &product.Product{}, &Assignment{},
		&ledger.BalanceEvent{}, &settings.LevelSetting{}, &settings.CommissionRate{},
	)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ledgerSvc := ledger.NewService(ledger.ServiceParams{DB: db, Node: node})
	userSvc := user.NewService(user.ServiceParams{DB: db, Node: node, Ledger: ledgerSvc})
	productSvc := product.NewService(product.ServiceParams{DB: db, Node: node})
	settingsSvc := settings.NewService(settings.ServiceParams{DB: db})

	svc := NewService(ServiceParams{
		DB: db, Node: node,
		Ledger: ledgerSvc, Users: userSvc, Products: productSvc, Settings: settingsSvc,
		Picker: &seqPicker{},
	})
	return &fixture{svc: svc, ledger: ledgerSvc, users: userSvc, products: productSvc, settings: settingsSvc}
}

func (f *fixture) addUser(t *testing.T, name string) *user.User {
	t.Helper()
	row, err := f.users.Register(context.Background(), name, name+"@example.com", "secret1")
	require.NoError(t, err)
	return row
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

func TestAssignDailyTasksIsIdempotentPerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	f.addProduct(t, "Widget", "5.00", "0")

	first, err := f.svc.AssignDailyTasks(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, first.UsersAssigned)
	require.Equal(t, 1, first.Assignments)

	// Same pool, same day: the duplicate insert is dropped and the debit
	// guard prevents a second charge. The user still counts as processed.
	second, err := f.svc.AssignDailyTasks(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, second.UsersAssigned)
	require.Equal(t, 0, second.Assignments)

	row, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, row.WalletBalance.Equal(d("-5.00")), "balance %s", row.WalletBalance)

	events, err := f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, ledger.EventAssignmentDebit, events[0].Type)

	rows, err := f.svc.TodayForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, StatusPending, rows[0].Status)
}

func TestAssignDailyTasksUsesLevelLimitAndLevelPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	require.NoError(t, f.users.SetLevel(ctx, u.ID, 2))
	require.NoError(t, f.settings.ReplaceLevelSettings(ctx, []settings.LevelSetting{
		{Level: 2, DailyTaskLimit: 3},
	}))

	f.addProduct(t, "A", "5.00", "10.00")
	f.addProduct(t, "B", "6.00", "12.00")
	f.addProduct(t, "C", "7.00", "0")

	result, err := f.svc.AssignDailyTasks(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.UsersAssigned)
	require.Equal(t, 3, result.Assignments)

	// C has no level-2 price and falls back to its level-1 column.
	row, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, row.WalletBalance.Equal(d("-29.00")), "balance %s", row.WalletBalance)
}

func TestAssignDailyTasksDropsDuplicateDrawsWithinRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	require.NoError(t, f.settings.ReplaceLevelSettings(ctx, []settings.LevelSetting{
		{Level: 1, DailyTaskLimit: 3},
	}))
	f.addProduct(t, "Widget", "5.00", "0")

	// Three draws over a one-product pool collide on the unique index;
	// only the first insert lands and only it is charged.
	result, err := f.svc.AssignDailyTasks(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.UsersAssigned)
	require.Equal(t, 1, result.Assignments)

	rows, err := f.svc.TodayForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, row.WalletBalance.Equal(d("-5.00")), "balance %s", row.WalletBalance)

	events, err := f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestAssignDailyTasksSkipsZeroLimitLevels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	require.NoError(t, f.settings.ReplaceLevelSettings(ctx, []settings.LevelSetting{
		{Level: 1, DailyTaskLimit: 0},
	}))
	f.addProduct(t, "Widget", "5.00", "0")

	result, err := f.svc.AssignDailyTasks(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 0, result.UsersAssigned)

	row, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, row.WalletBalance.IsZero())
}

func TestAssignDailyTasksPoolErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addUser(t, "alice")

	_, err := f.svc.AssignDailyTasks(ctx, nil)
	require.Error(t, err, "no active products")

	p := f.addProduct(t, "Widget", "5.00", "0")

	_, err = f.svc.AssignDailyTasks(ctx, []string{"bogus"})
	require.Error(t, err, "filter matches nothing")

	result, err := f.svc.AssignDailyTasks(ctx, []string{p.ID, "bogus"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Assignments)
}

func TestAssignSingleTaskDebitsAndUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	p := f.addProduct(t, "Widget", "5.00", "0")

	custom := d("10.00")
	row, err := f.svc.AssignSingleTask(ctx, u.ID, p.ID, d("2.00"), &custom)
	require.NoError(t, err)
	require.True(t, row.IsManual)
	require.Equal(t, StatusPending, row.Status)
	require.NotNil(t, row.CustomPrice)
	require.True(t, row.CustomPrice.Equal(d("10.00")))
	require.True(t, row.ManualBonus.Equal(d("2.00")))

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(d("-12.00")), "debits the full base amount, price plus bonus")

	events, err := f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, ledger.EventManualAdjustment, events[0].Type)
	require.True(t, events[0].Amount.Equal(d("12.00")))
}

func TestAssignSingleTaskBonusChangeMovesBaseDifference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	p := f.addProduct(t, "Widget", "5.00", "0")

	custom := d("10.00")
	_, err := f.svc.AssignSingleTask(ctx, u.ID, p.ID, d("2.00"), &custom)
	require.NoError(t, err)

	// Same price, bonus 2.00 -> 5.00: the base amount grows by 3.00.
	_, err = f.svc.AssignSingleTask(ctx, u.ID, p.ID, d("5.00"), &custom)
	require.NoError(t, err)

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(d("-15.00")), "balance %s", got.WalletBalance)

	events, err := f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.True(t, events[0].Amount.Equal(d("3.00")))

	// Dropping the bonus refunds the difference.
	_, err = f.svc.AssignSingleTask(ctx, u.ID, p.ID, decimal.Zero, &custom)
	require.NoError(t, err)

	got, err = f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(d("-10.00")), "balance %s", got.WalletBalance)
}

func TestAssignSingleTaskDifferenceDeadband(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	p := f.addProduct(t, "Widget", "5.00", "0")

	custom := d("10.00")
	_, err := f.svc.AssignSingleTask(ctx, u.ID, p.ID, decimal.Zero, &custom)
	require.NoError(t, err)

	// Re-pricing within the deadband leaves the wallet alone.
	near := d("10.004")
	_, err = f.svc.AssignSingleTask(ctx, u.ID, p.ID, decimal.Zero, &near)
	require.NoError(t, err)

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(d("-10.00")), "balance %s", got.WalletBalance)

	events, err := f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// Past the deadband the difference is charged.
	above := d("10.006")
	_, err = f.svc.AssignSingleTask(ctx, u.ID, p.ID, decimal.Zero, &above)
	require.NoError(t, err)

	got, err = f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(d("-10.01")), "balance %s", got.WalletBalance)

	events, err = f.ledger.ListEvents(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestAssignSingleTaskResetsCompletedRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	p := f.addProduct(t, "Widget", "5.00", "0")

	row, err := f.svc.AssignSingleTask(ctx, u.ID, p.ID, decimal.Zero, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.db.Model(&Assignment{}).Where("id = ?", row.ID).Updates(map[string]any{
		"status":        StatusCompleted,
		"amount_earned": d("5.25"),
	}).Error)

	again, err := f.svc.AssignSingleTask(ctx, u.ID, p.ID, d("1.00"), nil)
	require.NoError(t, err)
	require.Equal(t, row.ID, again.ID, "same-day row is reused")
	require.Equal(t, StatusPending, again.Status)
	require.True(t, again.AmountEarned.IsZero())
	require.True(t, again.ManualBonus.Equal(d("1.00")))
	require.Nil(t, again.SubmittedAt)
}

func TestAssignSingleTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addUser(t, "alice")
	p := f.addProduct(t, "Widget", "5.00", "0")

	_, err := f.svc.AssignSingleTask(ctx, "missing", p.ID, decimal.Zero, nil)
	require.Error(t, err)

	_, err = f.svc.AssignSingleTask(ctx, u.ID, "missing", decimal.Zero, nil)
	require.Error(t, err)

	require.NoError(t, f.products.SetStatus(ctx, p.ID, product.StatusInactive))
	_, err = f.svc.AssignSingleTask(ctx, u.ID, p.ID, decimal.Zero, nil)
	require.Error(t, err, "inactive product is unavailable")

	require.NoError(t, f.products.SetStatus(ctx, p.ID, product.StatusActive))
	negative := d("-1.00")
	_, err = f.svc.AssignSingleTask(ctx, u.ID, p.ID, decimal.Zero, &negative)
	require.Error(t, err)
}
