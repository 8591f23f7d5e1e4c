package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is owned by exactly one customer or one anonymous session
type Cart struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	SessionKey *string    `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem is one cart line joined with the book data the sidebar shows.
// Price is captured when the line is first added.
type CartItem struct {
	ID            uuid.UUID       `json:"id"`
	CartID        uuid.UUID       `json:"-"`
	BookID        uuid.UUID       `json:"book_id"`
	BookTitle     string          `json:"book_title"`
	BookSlug      string          `json:"book_slug"`
	BookImage     string          `json:"book_image"`
	StockQuantity int             `json:"-"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"-"`
}

func (i *CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// BookStock is what AddItem needs to know about a book before touching the cart
type BookStock struct {
	ID            uuid.UUID
	Title         string
	Price         decimal.Decimal
	StockQuantity int
	IsActive      bool
}

// CartData is the full cart as rendered by GET /cart
type CartData struct {
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	IsEmpty    bool            `json:"is_empty"`
}

// NewCartData computes line and cart totals from the lines
func NewCartData(items []CartItem) *CartData {
	data := &CartData{Items: items, Subtotal: decimal.Zero}
	if data.Items == nil {
		data.Items = []CartItem{}
	}
	for i := range data.Items {
		data.Items[i].Total = data.Items[i].LineTotal()
		data.TotalItems += data.Items[i].Quantity
		data.Subtotal = data.Subtotal.Add(data.Items[i].Total)
	}
	data.IsEmpty = len(data.Items) == 0
	return data
}

// Totals is the summary returned by every cart mutation
type Totals struct {
	CartCount    int              `json:"cart_count"`
	CartSubtotal decimal.Decimal  `json:"cart_subtotal"`
	ItemTotal    *decimal.Decimal `json:"item_total,omitempty"`
}

type MutationResult struct {
	Message string `json:"-"`
	Totals
}
