package admin

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskrewards-platform/services/ledger"
	"taskrewards-platform/services/product"
	"taskrewards-platform/services/testutil"
	"taskrewards-platform/services/user"
	"taskrewards-platform/services/withdrawal"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	svc      *Service
	users    *user.Service
	products *product.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t, &user.User{}, &product.Product{}, &withdrawal.Withdrawal{}, &ledger.BalanceEvent{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ledgerSvc := ledger.NewService(ledger.ServiceParams{DB: db, Node: node})
	userSvc := user.NewService(user.ServiceParams{DB: db, Node: node, Ledger: ledgerSvc})
	productSvc := product.NewService(product.ServiceParams{DB: db, Node: node})
	svc := NewService(ServiceParams{DB: db, Ledger: ledgerSvc})
	return &fixture{svc: svc, users: userSvc, products: productSvc}
}

func TestStatsAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.users.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	b, err := f.users.Register(ctx, "bob", "bob@example.com", "secret1")
	require.NoError(t, err)
	_, err = f.users.CreateAdmin(ctx, "root", "root@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.users.Deposit(ctx, a.ID, d("30.00"))
	require.NoError(t, err)
	_, err = f.users.Deposit(ctx, b.ID, d("20.00"))
	require.NoError(t, err)

	_, err = f.products.Create(ctx, product.CreateInput{Name: "Widget", LevelPrices: [5]decimal.Decimal{d("5.00")}})
	require.NoError(t, err)

	// Logging in marks the user active today.
	_, err = f.users.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalUsers, "admins are not counted")
	require.EqualValues(t, 1, stats.ActiveToday)
	require.True(t, stats.TotalBalance.Equal(d("50.00")), "balance %s", stats.TotalBalance)
	require.EqualValues(t, 1, stats.TotalProducts)
	require.EqualValues(t, 0, stats.PendingWithdrawals)
}

func TestStatsActiveTodayUsesLocalCalendarDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.users.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	b, err := f.users.Register(ctx, "bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	justAfterMidnight := start.Add(time.Minute)
	lastNight := start.Add(-time.Hour)

	require.NoError(t, f.svc.db.Model(&user.User{}).Where("id = ?", a.ID).
		Update("last_login", justAfterMidnight).Error)
	require.NoError(t, f.svc.db.Model(&user.User{}).Where("id = ?", b.ID).
		Update("last_login", lastNight).Error)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.ActiveToday, "day boundary is the local midnight")
}

func TestNegativeBalancesOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.users.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	b, err := f.users.Register(ctx, "bob", "bob@example.com", "secret1")
	require.NoError(t, err)
	_, err = f.users.Register(ctx, "carol", "carol@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.users.SetBalance(ctx, a.ID, d("-3.00"))
	require.NoError(t, err)
	_, err = f.users.SetBalance(ctx, b.ID, d("-10.00"))
	require.NoError(t, err)

	rows, err := f.svc.NegativeBalances(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "bob", rows[0].Username, "deepest debt first")
}

func TestBalanceEventsLimitAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.users.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.users.Deposit(ctx, a.ID, d("1.00"))
		require.NoError(t, err)
	}

	rows, err := f.svc.BalanceEvents(ctx, a.ID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = f.svc.BalanceEvents(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3, "zero limit falls back to the default")
}

func TestHealthy(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.Healthy(context.Background()))
}
