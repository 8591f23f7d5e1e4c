package repository

import (
	"context"
	"sync"
	"testing"

	"buxta-backend/internal/infrastructure/database/dbtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_ConcurrentAddsRespectStock(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(650), 1)
	cartID := dbtest.SessionCart(t, pool)

	const attempts = 2
	results := make([]bool, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = repo.AddItem(ctx, cartID, bookID, 1)
		}(i)
	}
	close(start)
	wg.Wait()

	added := 0
	for i := range results {
		require.NoError(t, errs[i])
		if results[i] {
			added++
		}
	}
	assert.Equal(t, 1, added)

	items, err := repo.ListItems(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, decimal.NewFromInt(650).Equal(items[0].Price))
}

func TestAddItem_IncrementsUpToStock(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(400), 3)
	cartID := dbtest.SessionCart(t, pool)

	ok, err := repo.AddItem(ctx, cartID, bookID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AddItem(ctx, cartID, bookID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "2 + 2 exceeds stock of 3")

	ok, err = repo.AddItem(ctx, cartID, bookID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := repo.ListItems(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddItem_InactiveBook(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(400), 5)
	cartID := dbtest.SessionCart(t, pool)
	_, err := pool.Exec(ctx, `UPDATE books SET is_active = FALSE WHERE id = $1`, bookID)
	require.NoError(t, err)

	ok, err := repo.AddItem(ctx, cartID, bookID, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetItemQuantity(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(900), 4)
	cartID := dbtest.SessionCart(t, pool)

	ok, err := repo.AddItem(ctx, cartID, bookID, 1)
	require.NoError(t, err)
	require.True(t, ok)
	items, err := repo.ListItems(ctx, cartID)
	require.NoError(t, err)
	itemID := items[0].ID

	ok, err = repo.SetItemQuantity(ctx, cartID, itemID, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.SetItemQuantity(ctx, cartID, itemID, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	other := dbtest.SessionCart(t, pool)
	ok, err = repo.SetItemQuantity(ctx, other, itemID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "item belongs to a different cart")

	it, err := repo.GetItem(ctx, cartID, itemID)
	require.NoError(t, err)
	assert.Equal(t, 4, it.Quantity)
}
