package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/printshop-system/internal/model"
)

func TestFileStore_InitCreatesEmptySnapshots(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	for _, name := range []string{"products.json", "orders.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	}

	products, err := store.LoadProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	orders, err := store.LoadOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	products := []model.Product{
		{
			ID:          "prod_1",
			Name:        "4x6",
			Price:       50000,
			Description: "glossy",
			CreatedAt:   "2026-09-01T10:00:00.000Z",
			UpdatedAt:   "2026-09-01T10:00:00.000Z",
		},
	}
	orders := []model.Order{
		{
			ID: "ord_1",
			Customer: model.Customer{
				LastName:  "Smith",
				Phone:     "09123456789",
				CreatedAt: "2026-09-01T10:00:00.000Z",
			},
			Items: []model.LineItem{
				{ID: "item_1", ProductID: "prod_1", Name: "4x6", Quantity: 2, UnitPrice: 50000, TotalPrice: 100000},
			},
			TotalAmount:     100000,
			Deposit:         40000,
			RemainingAmount: 60000,
			CreatedAt:       "2026-09-01T10:00:00.000Z",
		},
	}

	ctx := context.Background()

	require.NoError(t, store.SaveProducts(ctx, products))
	require.NoError(t, store.SaveOrders(ctx, orders))

	gotProducts, err := store.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, gotProducts)

	gotOrders, err := store.LoadOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, orders, gotOrders)
}

func TestFileStore_SaveReplacesSnapshot(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.SaveProducts(ctx, []model.Product{{ID: "p1", Name: "a", Price: 1}}))
	require.NoError(t, store.SaveProducts(ctx, []model.Product{{ID: "p2", Name: "b", Price: 2}}))

	products, err := store.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

func TestFileStore_CorruptFileLoadsAsEmpty(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json"), []byte("{not json"), 0o644))

	orders, err := store.LoadOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFileStore_NilSavedAsEmptyList(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveOrders(context.Background(), nil))

	data, err := os.ReadFile(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileStore_CancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.LoadProducts(ctx)
	require.ErrorIs(t, err, context.Canceled)

	err = store.SaveProducts(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}
