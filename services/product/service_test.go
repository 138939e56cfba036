package product

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskrewards-platform/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewTestDB(t, &Product{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(ServiceParams{DB: db, Node: node})
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPriceForLevelFallsBackToLevelOne(t *testing.T) {
	p := &Product{
		Level1Price: d("5.00"),
		Level3Price: d("15.00"),
	}

	require.True(t, p.PriceForLevel(1).Equal(d("5.00")))
	require.True(t, p.PriceForLevel(3).Equal(d("15.00")))
	require.True(t, p.PriceForLevel(2).Equal(d("5.00")), "unset level column falls back to level 1")
	require.True(t, p.PriceForLevel(9).Equal(d("5.00")), "unknown level falls back to level 1")
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "", LevelPrices: [5]decimal.Decimal{d("1.00")}})
	require.Error(t, err)

	_, err = svc.Create(ctx, CreateInput{Name: "Widget"})
	require.Error(t, err, "level 1 price must be positive")

	row, err := svc.Create(ctx, CreateInput{Name: "Widget", LevelPrices: [5]decimal.Decimal{d("5.00"), d("10.00")}})
	require.NoError(t, err)
	require.Equal(t, StatusActive, row.Status)
	require.NotEmpty(t, row.ID)
}

func TestSetStatusAndActiveListing(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{Name: "A", LevelPrices: [5]decimal.Decimal{d("5.00")}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "B", LevelPrices: [5]decimal.Decimal{d("6.00")}})
	require.NoError(t, err)

	require.Error(t, svc.SetStatus(ctx, a.ID, "archived"))
	require.NoError(t, svc.SetStatus(ctx, a.ID, StatusInactive))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "B", active[0].Name)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestUpdateAppliesPartialValues(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	row, err := svc.Create(ctx, CreateInput{Name: "Widget", LevelPrices: [5]decimal.Decimal{d("5.00")}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, row.ID, map[string]any{"name": "Gadget", "level2_price": d("7.50")})
	require.NoError(t, err)
	require.Equal(t, "Gadget", updated.Name)
	require.True(t, updated.Level2Price.Equal(d("7.50")))
	require.True(t, updated.Level1Price.Equal(d("5.00")), "untouched columns keep their values")

	_, err = svc.Update(ctx, "missing", map[string]any{"name": "X"})
	require.Error(t, err)
}
