package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/shared/utils"
	"buxta-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectCartLines = `
	SELECT ci.id, ci.book_id, b.title, ci.quantity, ci.price, b.stock_quantity
	FROM cart_items ci
	JOIN books b ON b.id = ci.book_id
	WHERE ci.cart_id = $1
	ORDER BY ci.book_id`

func scanCartLines(rows pgx.Rows) ([]model.CartLine, error) {
	defer rows.Close()

	lines := make([]model.CartLine, 0)
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ItemID, &l.BookID, &l.BookTitle, &l.Quantity, &l.Price, &l.StockQuantity); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *postgresRepository) ListCartLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	rows, err := r.pool.Query(ctx, selectCartLines, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	return scanCartLines(rows)
}

func (r *postgresRepository) PlaceOrder(ctx context.Context, cartID uuid.UUID, o *model.Order, nextNumber func() string) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// lines are locked in book order so concurrent checkouts take book locks in the same order
		rows, err := tx.Query(ctx, selectCartLines+` FOR UPDATE OF ci`, cartID)
		if err != nil {
			return fmt.Errorf("lock cart lines: %w", err)
		}
		lines, err := scanCartLines(rows)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return model.ErrCartEmpty
		}

		// conditional decrement; any short line aborts the whole order
		for _, l := range lines {
			if err := decrementStock(ctx, tx, l); err != nil {
				return err
			}
		}

		// prices come from the cart snapshot, not the current book price
		o.Items = make([]model.OrderItem, 0, len(lines))
		o.Subtotal = decimal.Zero
		for _, l := range lines {
			item := model.OrderItem{
				ID:        uuid.New(),
				OrderID:   o.ID,
				BookID:    l.BookID,
				BookTitle: l.BookTitle,
				Quantity:  l.Quantity,
				Price:     l.Price,
				Total:     l.Total(),
			}
			o.Items = append(o.Items, item)
			o.Subtotal = o.Subtotal.Add(item.Total)
		}
		o.TotalAmount = o.Subtotal.Add(o.TaxAmount).Add(o.ShippingCost).Sub(o.DiscountAmount)

		if err := insertOrder(ctx, tx, o, nextNumber); err != nil {
			return err
		}

		// items, first history row and cart clearing in one round trip
		batch := &pgx.Batch{}
		for _, it := range o.Items {
			batch.Queue(`
				INSERT INTO order_items (id, order_id, book_id, book_title, quantity, price, total)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				it.ID, it.OrderID, it.BookID, it.BookTitle, it.Quantity, it.Price, it.Total)
		}
		batch.Queue(`
			INSERT INTO order_status_history (id, order_id, status, notes, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), o.ID, o.Status, model.PlacedNote, o.CreatedAt)
		batch.Queue(`DELETE FROM cart_items WHERE cart_id = $1`, cartID)

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("write order rows: %w", err)
			}
		}
		return results.Close()
	})
}

func decrementStock(ctx context.Context, tx pgx.Tx, l model.CartLine) error {
	tag, err := tx.Exec(ctx, `
		UPDATE books SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2`,
		l.BookID, l.Quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// report what is actually left so the shopper can adjust the cart
	var available int
	if err := tx.QueryRow(ctx, `SELECT stock_quantity FROM books WHERE id = $1`, l.BookID).Scan(&available); err != nil {
		return fmt.Errorf("read stock: %w", err)
	}
	return model.InsufficientStock(available, l.BookTitle)
}

// insertOrder retries inside a savepoint when the random order number is taken
func insertOrder(ctx context.Context, tx pgx.Tx, o *model.Order, nextNumber func() string) error {
	query := `
		INSERT INTO orders (
			id, order_number, customer_id,
			billing_first_name, billing_last_name, billing_company, billing_email,
			billing_address_line_1, billing_address_line_2, billing_city, billing_state,
			billing_postal_code, billing_country, billing_phone,
			shipping_first_name, shipping_last_name, shipping_company,
			shipping_address_line_1, shipping_address_line_2, shipping_city, shipping_state,
			shipping_postal_code, shipping_country, shipping_phone,
			status, subtotal, tax_amount, shipping_cost, discount_amount, total_amount,
			notes, version, created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24,
			$25, $26, $27, $28, $29, $30,
			$31, 1, $32, $32
		)`

	for attempt := 1; attempt <= model.MaxOrderNumberAttempts; attempt++ {
		number := nextNumber()
		err := database.WithSavepoint(ctx, tx, func(sp pgx.Tx) error {
			_, err := sp.Exec(ctx, query,
				o.ID, number, o.CustomerID,
				o.Billing.FirstName, o.Billing.LastName, o.Billing.Company, o.Billing.Email,
				o.Billing.AddressLine1, o.Billing.AddressLine2, o.Billing.City, o.Billing.State,
				o.Billing.PostalCode, o.Billing.Country, o.Billing.Phone,
				o.Shipping.FirstName, o.Shipping.LastName, o.Shipping.Company,
				o.Shipping.AddressLine1, o.Shipping.AddressLine2, o.Shipping.City, o.Shipping.State,
				o.Shipping.PostalCode, o.Shipping.Country, o.Shipping.Phone,
				o.Status, o.Subtotal, o.TaxAmount, o.ShippingCost, o.DiscountAmount, o.TotalAmount,
				o.Notes, o.CreatedAt,
			)
			return err
		})
		if err == nil {
			o.OrderNumber = number
			o.Version = 1
			o.UpdatedAt = o.CreatedAt
			return nil
		}
		if !utils.IsUniqueViolation(err, "orders_order_number_key") {
			return fmt.Errorf("insert order: %w", err)
		}
	}
	return model.ErrOrderNumberExhaust
}

const selectOrder = `
	SELECT o.id, o.order_number, o.customer_id,
	       o.billing_first_name, o.billing_last_name, o.billing_company, o.billing_email,
	       o.billing_address_line_1, o.billing_address_line_2, o.billing_city, o.billing_state,
	       o.billing_postal_code, o.billing_country, o.billing_phone,
	       o.shipping_first_name, o.shipping_last_name, o.shipping_company,
	       o.shipping_address_line_1, o.shipping_address_line_2, o.shipping_city, o.shipping_state,
	       o.shipping_postal_code, o.shipping_country, o.shipping_phone,
	       o.status, o.subtotal, o.tax_amount, o.shipping_cost, o.discount_amount, o.total_amount,
	       o.notes, o.internal_notes, o.version, o.created_at, o.updated_at, o.shipped_at, o.delivered_at
	FROM orders o`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID,
		&o.Billing.FirstName, &o.Billing.LastName, &o.Billing.Company, &o.Billing.Email,
		&o.Billing.AddressLine1, &o.Billing.AddressLine2, &o.Billing.City, &o.Billing.State,
		&o.Billing.PostalCode, &o.Billing.Country, &o.Billing.Phone,
		&o.Shipping.FirstName, &o.Shipping.LastName, &o.Shipping.Company,
		&o.Shipping.AddressLine1, &o.Shipping.AddressLine2, &o.Shipping.City, &o.Shipping.State,
		&o.Shipping.PostalCode, &o.Shipping.Country, &o.Shipping.Phone,
		&o.Status, &o.Subtotal, &o.TaxAmount, &o.ShippingCost, &o.DiscountAmount, &o.TotalAmount,
		&o.Notes, &o.InternalNotes, &o.Version, &o.CreatedAt, &o.UpdatedAt, &o.ShippedAt, &o.DeliveredAt,
	)
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Derive()
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	if err := scanOrder(r.pool.QueryRow(ctx, selectOrder+` WHERE o.id = $1`, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := r.history(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	o.History = history
	o.Derive()
	return &o, nil
}

func (r *postgresRepository) items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, book_id, book_title, quantity, price, total
		FROM order_items WHERE order_id = $1 ORDER BY book_title`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.BookID, &it.BookTitle, &it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepository) history(ctx context.Context, orderID uuid.UUID) ([]model.StatusHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.order_id, h.status, h.notes, h.created_by,
		       COALESCE(TRIM(u.first_name || ' ' || u.last_name), ''), h.created_at
		FROM order_status_history h
		LEFT JOIN users u ON u.id = h.created_by
		WHERE h.order_id = $1
		ORDER BY h.created_at DESC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order history: %w", err)
	}
	defer rows.Close()

	history := make([]model.StatusHistory, 0)
	for rows.Next() {
		var h model.StatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.Notes, &h.CreatedBy, &h.CreatedByName, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order history: %w", err)
		}
		h.StatusDisplay = model.StatusLabel(h.Status)
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *postgresRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, selectOrder+` WHERE o.customer_id = $1 ORDER BY o.created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query customer orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *postgresRepository) AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.Order, int, error) {
	var where utils.WhereBuilder
	if filter.Search != "" {
		where.Add(`(o.order_number ILIKE ? OR o.billing_first_name ILIKE ? OR o.billing_last_name ILIKE ?
			OR o.billing_email ILIKE ? OR u.email ILIKE ? OR u.first_name ILIKE ? OR u.last_name ILIKE ?)`,
			utils.LikePattern(filter.Search))
	}
	if filter.Status != "" {
		where.Add("o.status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		where.Add("o.created_at::date >= ?::date", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where.Add("o.created_at::date <= ?::date", *filter.DateTo)
	}

	from := `
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		LEFT JOIN users u ON u.id = c.user_id`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+from+where.SQL(), where.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := selectOrder + `
		LEFT JOIN customers c ON c.id = o.customer_id
		LEFT JOIN users u ON u.id = c.user_id` + where.SQL() + ` ORDER BY o.created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + where.Next(filter.Limit) + ` OFFSET ` + where.Next((filter.Page-1)*filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, where.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, notes string, staffID *uuid.UUID, version int, at time.Time) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders
			SET status = $1,
			    version = version + 1,
			    updated_at = $4,
			    shipped_at = CASE WHEN $1 = 'shipped' AND shipped_at IS NULL THEN $4 ELSE shipped_at END,
			    delivered_at = CASE WHEN $1 = 'delivered' AND delivered_at IS NULL THEN $4 ELSE delivered_at END
			WHERE id = $2 AND version = $3`,
			status, id, version, at)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
				return fmt.Errorf("check order: %w", err)
			}
			if !exists {
				return model.ErrOrderNotFound
			}
			return model.ErrVersionMismatch
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO order_status_history (id, order_id, status, notes, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), id, status, notes, staffID, at)
		if err != nil {
			return fmt.Errorf("insert order history: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) LowStockBooks(ctx context.Context, bookIDs []uuid.UUID) ([]model.LowStockBook, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, stock_quantity, low_stock_threshold
		FROM books
		WHERE id = ANY($1) AND stock_quantity <= low_stock_threshold
		ORDER BY stock_quantity, title`, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("query low stock books: %w", err)
	}
	defer rows.Close()

	books := make([]model.LowStockBook, 0)
	for rows.Next() {
		var b model.LowStockBook
		if err := rows.Scan(&b.ID, &b.Title, &b.StockQuantity, &b.LowStockThreshold); err != nil {
			return nil, fmt.Errorf("scan low stock book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
