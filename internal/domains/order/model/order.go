package model

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"

	OrderNumberPrefix      = "BX"
	OrderNumberDigits      = 8
	MaxOrderNumberAttempts = 5

	PlacedNote = "Order placed"
)

// Statuses lists every order status in display order
var Statuses = []string{
	StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCancelled, StatusRefunded,
}

// RevenueStatuses are the statuses counted as sales
var RevenueStatuses = []string{StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered}

var statusLabels = map[string]string{
	StatusPending:    "Pending",
	StatusConfirmed:  "Confirmed",
	StatusProcessing: "Processing",
	StatusShipped:    "Shipped",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
	StatusRefunded:   "Refunded",
}

func IsValidStatus(status string) bool {
	_, ok := statusLabels[status]
	return ok
}

func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Address is the billing or shipping block copied onto the order
type Address struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company"`
	Email        string `json:"email,omitempty"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type Order struct {
	ID          uuid.UUID  `json:"id"`
	OrderNumber string     `json:"order_number"`
	CustomerID  *uuid.UUID `json:"customer_id"`

	Billing  Address `json:"billing"`
	Shipping Address `json:"shipping"`

	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Notes          string          `json:"notes"`
	InternalNotes  string          `json:"internal_notes"`
	Version        int             `json:"version"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`

	Items   []OrderItem     `json:"items,omitempty"`
	History []StatusHistory `json:"status_history,omitempty"`

	StatusDisplay    string `json:"status_display"`
	BillingFullName  string `json:"billing_full_name"`
	ShippingFullName string `json:"shipping_full_name"`
	CanBeCancelled   bool   `json:"can_be_cancelled"`
}

// Derive fills the computed fields
func (o *Order) Derive() {
	o.StatusDisplay = StatusLabel(o.Status)
	o.BillingFullName = o.Billing.FullName()
	o.ShippingFullName = o.Shipping.FullName()
	o.CanBeCancelled = o.Status == StatusPending || o.Status == StatusConfirmed
}

type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"-"`
	BookID    uuid.UUID       `json:"book_id"`
	BookTitle string          `json:"book_title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

type StatusHistory struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       uuid.UUID  `json:"-"`
	Status        string     `json:"status"`
	StatusDisplay string     `json:"status_display"`
	Notes         string     `json:"notes"`
	CreatedBy     *uuid.UUID `json:"created_by"`
	CreatedByName string     `json:"created_by_name"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CartLine is a cart item as seen by checkout
type CartLine struct {
	ItemID        uuid.UUID
	BookID        uuid.UUID
	BookTitle     string
	Quantity      int
	Price         decimal.Decimal
	StockQuantity int
}

func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LowStockBook is reported by the order:placed job
type LowStockBook struct {
	ID                uuid.UUID
	Title             string
	StockQuantity     int
	LowStockThreshold int
}

// NewOrderNumber returns "BX" followed by 8 random digits
func NewOrderNumber() string {
	var b strings.Builder
	b.WriteString(OrderNumberPrefix)
	ten := big.NewInt(10)
	for i := 0; i < OrderNumberDigits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			n = big.NewInt(int64(time.Now().UnixNano() % 10))
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String()
}
