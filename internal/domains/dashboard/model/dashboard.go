package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RecentOrdersLimit = 10
	BestsellersLimit  = 5
	LowStockLimit     = 10

	DefaultSalesPeriod = 7
)

// SalesPeriods are the chart windows, in days
var SalesPeriods = []int{7, 30, 90}

type Stats struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalOrders    int             `json:"total_orders"`
	TotalBooks     int             `json:"total_books"`
	TotalCustomers int             `json:"active_customers"`
	PendingOrders  int             `json:"pending_orders"`
	PendingReviews int             `json:"pending_reviews"`

	RecentOrders  []RecentOrder `json:"recent_orders"`
	TopBooks      []BookSummary `json:"top_books"`
	LowStockBooks []BookSummary `json:"low_stock_books"`
}

type RecentOrder struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	StatusDisplay string          `json:"status_display"`
	CreatedAt     time.Time       `json:"created_at"`
}

type BookSummary struct {
	ID                uuid.UUID       `json:"id"`
	Title             string          `json:"title"`
	Slug              string          `json:"slug"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

// SalesPoint is one day of the sales chart
type SalesPoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

type SalesData struct {
	Period int          `json:"period"`
	Points []SalesPoint `json:"sales_data"`
}

// ValidPeriod reports whether days is one of SalesPeriods
func ValidPeriod(days int) bool {
	for _, p := range SalesPeriods {
		if p == days {
			return true
		}
	}
	return false
}
