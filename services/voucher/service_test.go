package voucher

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskrewards-platform/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewTestDB(t, &Voucher{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(ServiceParams{DB: db, Node: node})
}

func TestCreateDefaultsTitleToName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{})
	require.Error(t, err)

	row, err := svc.Create(ctx, CreateInput{Name: "Free Coffee"})
	require.NoError(t, err)
	require.Equal(t, "Free Coffee", row.Title)
	require.Equal(t, StatusActive, row.Status)

	got, err := svc.Get(ctx, row.ID)
	require.NoError(t, err)
	require.Equal(t, row.ID, got.ID)

	_, err = svc.Get(ctx, "missing")
	require.Error(t, err)
}

func TestListReturnsAllVouchers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "A", Title: "Card A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "B", Description: "desc"})
	require.NoError(t, err)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
