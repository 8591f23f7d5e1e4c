package repository

import (
	"context"
	"time"

	"buxta-backend/internal/domains/dashboard/model"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Counters fills the scalar fields of Stats
	Counters(ctx context.Context, revenueStatuses []string) (*model.Stats, error)
	RecentOrders(ctx context.Context, limit int) ([]model.RecentOrder, error)
	Bestsellers(ctx context.Context, limit int) ([]model.BookSummary, error)
	LowStockBooks(ctx context.Context, limit int) ([]model.BookSummary, error)

	// DailySales sums revenue per calendar day (YYYY-MM-DD) for from <= day <= to
	DailySales(ctx context.Context, revenueStatuses []string, from, to time.Time) (map[string]decimal.Decimal, error)
}
