package repository

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/infrastructure/database/dbtest"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder() *model.Order {
	addr := model.Address{
		FirstName: "Njeri", LastName: "Wambui", Email: "njeri@example.com",
		AddressLine1: "7 Kenyatta Avenue", City: "Nakuru", State: "Nakuru",
		PostalCode: "20100", Country: model.DefaultCountry, Phone: "0722000000",
	}
	return &model.Order{
		ID:        uuid.New(),
		Billing:   addr,
		Shipping:  addr,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// testNumber is unique per call so parallel packages never collide by accident
func testNumber() string {
	return "T" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

func fixedNumbers(numbers ...string) func() string {
	i := 0
	return func() string {
		n := numbers[i%len(numbers)]
		i++
		return n
	}
}

func countLines(t *testing.T, pool *pgxpool.Pool, cartID uuid.UUID) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM cart_items WHERE cart_id = $1`, cartID).Scan(&n))
	return n
}

func TestPlaceOrder_WritesOrderAndEmptiesCart(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	first := dbtest.SeedBook(t, pool, decimal.NewFromInt(500), 5)
	second := dbtest.SeedBook(t, pool, decimal.NewFromInt(1200), 1)
	cartID := dbtest.SessionCart(t, pool)
	dbtest.AddLine(t, pool, cartID, first, 2)
	dbtest.AddLine(t, pool, cartID, second, 1)

	o := newOrder()
	require.NoError(t, repo.PlaceOrder(ctx, cartID, o, testNumber))

	assert.Equal(t, 1, o.Version)
	assert.True(t, decimal.NewFromInt(2200).Equal(o.Subtotal))
	assert.True(t, decimal.NewFromInt(2200).Equal(o.TotalAmount))
	assert.Equal(t, 3, dbtest.Stock(t, pool, first))
	assert.Equal(t, 0, dbtest.Stock(t, pool, second))
	assert.Zero(t, countLines(t, pool, cartID))

	stored, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, stored.OrderNumber)
	assert.Len(t, stored.Items, 2)
	require.Len(t, stored.History, 1)
	assert.Equal(t, model.StatusPending, stored.History[0].Status)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)

	err := repo.PlaceOrder(context.Background(), dbtest.SessionCart(t, pool), newOrder(), testNumber)
	assert.ErrorIs(t, err, model.ErrCartEmpty)
}

func TestPlaceOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(800), 3)
	carts := []uuid.UUID{dbtest.SessionCart(t, pool), dbtest.SessionCart(t, pool)}
	for _, c := range carts {
		dbtest.AddLine(t, pool, c, bookID, 2)
	}

	errs := make([]error, len(carts))
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, c := range carts {
		wg.Add(1)
		go func(i int, cartID uuid.UUID) {
			defer wg.Done()
			<-start
			errs[i] = repo.PlaceOrder(ctx, cartID, newOrder(), testNumber)
		}(i, c)
	}
	close(start)
	wg.Wait()

	placed, failed := -1, -1
	for i, err := range errs {
		if err == nil {
			placed = i
			continue
		}
		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		failed = i
	}
	require.NotEqual(t, -1, placed, "one checkout must succeed")
	require.NotEqual(t, -1, failed, "one checkout must be rejected")

	// only the winner's two copies left the shelf; the loser's cart is untouched
	assert.Equal(t, 1, dbtest.Stock(t, pool, bookID))
	assert.Zero(t, countLines(t, pool, carts[placed]))
	assert.Equal(t, 1, countLines(t, pool, carts[failed]))
}

func TestPlaceOrder_InsufficientStockRollsBackEveryLine(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	plenty := dbtest.SeedBook(t, pool, decimal.NewFromInt(300), 10)
	scarce := dbtest.SeedBook(t, pool, decimal.NewFromInt(300), 1)
	cartID := dbtest.SessionCart(t, pool)
	dbtest.AddLine(t, pool, cartID, plenty, 4)
	dbtest.AddLine(t, pool, cartID, scarce, 1)

	_, err := pool.Exec(ctx, `UPDATE books SET stock_quantity = 0 WHERE id = $1`, scarce)
	require.NoError(t, err)

	err = repo.PlaceOrder(ctx, cartID, newOrder(), testNumber)
	require.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "only 0 copies")

	assert.Equal(t, 10, dbtest.Stock(t, pool, plenty))
	assert.Equal(t, 2, countLines(t, pool, cartID))
}

func TestPlaceOrder_RetriesTakenOrderNumber(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(450), 5)
	taken, fresh := testNumber(), testNumber()

	firstCart := dbtest.SessionCart(t, pool)
	dbtest.AddLine(t, pool, firstCart, bookID, 1)
	require.NoError(t, repo.PlaceOrder(ctx, firstCart, newOrder(), fixedNumbers(taken)))

	secondCart := dbtest.SessionCart(t, pool)
	dbtest.AddLine(t, pool, secondCart, bookID, 1)
	o := newOrder()
	require.NoError(t, repo.PlaceOrder(ctx, secondCart, o, fixedNumbers(taken, fresh)))

	assert.Equal(t, fresh, o.OrderNumber)
	assert.Equal(t, 3, dbtest.Stock(t, pool, bookID))
	assert.Len(t, o.Items, 1)
}

func TestPlaceOrder_GivesUpAfterRepeatedCollisions(t *testing.T) {
	pool := dbtest.Pool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	bookID := dbtest.SeedBook(t, pool, decimal.NewFromInt(450), 5)
	taken := testNumber()

	firstCart := dbtest.SessionCart(t, pool)
	dbtest.AddLine(t, pool, firstCart, bookID, 1)
	require.NoError(t, repo.PlaceOrder(ctx, firstCart, newOrder(), fixedNumbers(taken)))

	secondCart := dbtest.SessionCart(t, pool)
	dbtest.AddLine(t, pool, secondCart, bookID, 2)
	err := repo.PlaceOrder(ctx, secondCart, newOrder(), fixedNumbers(taken))
	assert.ErrorIs(t, err, model.ErrOrderNumberExhaust)

	assert.Equal(t, 4, dbtest.Stock(t, pool, bookID))
	assert.Equal(t, 1, countLines(t, pool, secondCart))
}
