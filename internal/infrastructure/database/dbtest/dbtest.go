// Package dbtest opens the Postgres used by repository tests. Tests skip
// unless TEST_DATABASE_URL points at a database the migrations can own.
package dbtest

import (
	"context"
	"os"
	"testing"

	"buxta-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const EnvURL = "TEST_DATABASE_URL"

// Pool migrates the test database and returns a pool closed on cleanup.
// Seeded rows carry random names so packages can share one database.
func Pool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set, skipping repository test", EnvURL)
	}
	require.NoError(t, database.MigrateUp(url))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// SeedBook inserts an active book. Cleanup removes it along with any orders,
// cart lines and images that reference it.
func SeedBook(t testing.TB, pool *pgxpool.Pool, price decimal.Decimal, stock int) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	_, err := pool.Exec(ctx, `
		INSERT INTO books (id, title, slug, price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5)`,
		id, "Test Book "+id.String(), "test-book-"+id.String(), price, stock)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx,
			`DELETE FROM orders WHERE id IN (SELECT order_id FROM order_items WHERE book_id = $1)`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	})
	return id
}

// Stock reads a book's current stock_quantity
func Stock(t testing.TB, pool *pgxpool.Pool, bookID uuid.UUID) int {
	t.Helper()

	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT stock_quantity FROM books WHERE id = $1`, bookID).Scan(&n))
	return n
}

// SessionCart creates an anonymous cart removed on cleanup
func SessionCart(t testing.TB, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	_, err := pool.Exec(ctx, `INSERT INTO carts (id, session_key) VALUES ($1, $2)`, id, "test-"+id.String())
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	})
	return id
}

// AddLine puts quantity copies of a book straight into a cart
func AddLine(t testing.TB, pool *pgxpool.Pool, cartID, bookID uuid.UUID, quantity int) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO cart_items (id, cart_id, book_id, quantity, price)
		SELECT $1, $2, id, $3, price FROM books WHERE id = $4`,
		uuid.New(), cartID, quantity, bookID)
	require.NoError(t, err)
}
