package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buxta-backend/internal/domains/cart/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) GetOrCreateByCustomer(ctx context.Context, customerID uuid.UUID) (uuid.UUID, error) {
	query := `
		INSERT INTO carts (id, customer_id)
		VALUES ($1, $2)
		ON CONFLICT (customer_id) WHERE customer_id IS NOT NULL
		DO UPDATE SET updated_at = NOW()
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, uuid.New(), customerID).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("upsert customer cart: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) GetOrCreateBySession(ctx context.Context, sessionKey string) (uuid.UUID, error) {
	query := `
		INSERT INTO carts (id, session_key)
		VALUES ($1, $2)
		ON CONFLICT (session_key) WHERE session_key IS NOT NULL
		DO UPDATE SET updated_at = NOW()
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, uuid.New(), sessionKey).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("upsert session cart: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) GetBookStock(ctx context.Context, bookID uuid.UUID) (*model.BookStock, error) {
	var b model.BookStock
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, price, stock_quantity, is_active FROM books WHERE id = $1`, bookID,
	).Scan(&b.ID, &b.Title, &b.Price, &b.StockQuantity, &b.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book stock: %w", err)
	}
	return &b, nil
}

const selectItem = `
	SELECT ci.id, ci.cart_id, ci.book_id, b.title, b.slug,
	       COALESCE((SELECT bi.image_url FROM book_images bi WHERE bi.book_id = b.id AND bi.is_primary), ''),
	       b.stock_quantity, ci.quantity, ci.price, ci.created_at
	FROM cart_items ci
	JOIN books b ON b.id = ci.book_id`

func scanItem(row pgx.Row, it *model.CartItem) error {
	return row.Scan(
		&it.ID, &it.CartID, &it.BookID, &it.BookTitle, &it.BookSlug,
		&it.BookImage, &it.StockQuantity, &it.Quantity, &it.Price, &it.CreatedAt,
	)
}

func (r *postgresRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx, selectItem+` WHERE ci.cart_id = $1 ORDER BY ci.created_at`, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]model.CartItem, 0)
	for rows.Next() {
		var it model.CartItem
		if err := scanItem(rows, &it); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepository) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.CartItem, error) {
	var it model.CartItem
	err := scanItem(r.pool.QueryRow(ctx, selectItem+` WHERE ci.id = $1 AND ci.cart_id = $2`, itemID, cartID), &it)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return &it, nil
}

// AddItem is one statement: the insert only happens when the book is active and has
// enough stock, and the conflict update only fires when the new total still fits.
func (r *postgresRepository) AddItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int) (bool, error) {
	query := `
		INSERT INTO cart_items (id, cart_id, book_id, quantity, price)
		SELECT $1, $2, b.id, $3, b.price
		FROM books b
		WHERE b.id = $4 AND b.is_active AND b.stock_quantity >= $3
		ON CONFLICT (cart_id, book_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		WHERE cart_items.quantity + EXCLUDED.quantity <=
		      (SELECT stock_quantity FROM books WHERE id = EXCLUDED.book_id)`

	tag, err := r.pool.Exec(ctx, query, uuid.New(), cartID, quantity, bookID)
	if err != nil {
		return false, fmt.Errorf("add cart item: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE cart_items ci
		SET quantity = $3, updated_at = NOW()
		FROM books b
		WHERE ci.id = $1 AND ci.cart_id = $2 AND b.id = ci.book_id AND b.stock_quantity >= $3`

	tag, err := r.pool.Exec(ctx, query, itemID, cartID, quantity)
	if err != nil {
		return false, fmt.Errorf("update cart item: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrItemNotFound
	}
	return nil
}

// DeleteAbandonedSessionCarts removes anonymous carts; items go with them via ON DELETE CASCADE
func (r *postgresRepository) DeleteAbandonedSessionCarts(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM carts WHERE session_key IS NOT NULL AND updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete abandoned carts: %w", err)
	}
	return tag.RowsAffected(), nil
}
