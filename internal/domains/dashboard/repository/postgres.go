package repository

import (
	"context"
	"fmt"
	"time"

	"buxta-backend/internal/domains/dashboard/model"
	ordermodel "buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/shared/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Counters(ctx context.Context, revenueStatuses []string) (*model.Stats, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = ANY($1)),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM books WHERE is_active),
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM orders WHERE status = $2),
			(SELECT COUNT(*) FROM reviews WHERE NOT is_approved)
	`

	var s model.Stats
	err := r.pool.QueryRow(ctx, query, revenueStatuses, ordermodel.StatusPending).Scan(
		&s.TotalRevenue,
		&s.TotalOrders,
		&s.TotalBooks,
		&s.TotalCustomers,
		&s.PendingOrders,
		&s.PendingReviews,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard counters: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) RecentOrders(ctx context.Context, limit int) ([]model.RecentOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_number, TRIM(billing_first_name || ' ' || billing_last_name),
		       total_amount, status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.RecentOrder, 0, limit)
	for rows.Next() {
		var o model.RecentOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent order: %w", err)
		}
		o.StatusDisplay = ordermodel.StatusLabel(o.Status)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepository) listBooks(ctx context.Context, where string, limit int) ([]model.BookSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, slug, price, stock_quantity, low_stock_threshold
		FROM books
		WHERE `+where+`
		ORDER BY stock_quantity ASC, title ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboard books: %w", err)
	}
	defer rows.Close()

	books := make([]model.BookSummary, 0, limit)
	for rows.Next() {
		var b model.BookSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.Slug, &b.Price, &b.StockQuantity, &b.LowStockThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *postgresRepository) Bestsellers(ctx context.Context, limit int) ([]model.BookSummary, error) {
	return r.listBooks(ctx, `is_active AND is_bestseller`, limit)
}

func (r *postgresRepository) LowStockBooks(ctx context.Context, limit int) ([]model.BookSummary, error) {
	return r.listBooks(ctx, `is_active AND stock_quantity <= low_stock_threshold`, limit)
}

func (r *postgresRepository) DailySales(ctx context.Context, revenueStatuses []string, from, to time.Time) (map[string]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT created_at::date AS day, COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = ANY($1)
		  AND created_at::date BETWEEN $2::date AND $3::date
		GROUP BY day`,
		revenueStatuses, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily sales: %w", err)
	}
	defer rows.Close()

	sales := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			day   time.Time
			total decimal.Decimal
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("failed to scan daily sales: %w", err)
		}
		sales[day.Format(utils.DateLayout)] = total
	}
	return sales, rows.Err()
}
