package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"
	AddressBoth     = "both"

	DefaultCountry      = "Kenya"
	DefaultWishlistName = "My Wishlist"
)

// Customer is the shopper profile attached 1:1 to a user account
type Customer struct {
	ID                     uuid.UUID  `json:"id"`
	UserID                 uuid.UUID  `json:"user_id"`
	Phone                  string     `json:"phone"`
	BirthDate              *time.Time `json:"birth_date"`
	NewsletterSubscription bool       `json:"newsletter_subscription"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

type Address struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	AddressType  string    `json:"address_type"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Company      string    `json:"company"`
	AddressLine1 string    `json:"address_line_1"`
	AddressLine2 string    `json:"address_line_2"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	Phone        string    `json:"phone"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Wishlist struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	Name       string         `json:"name"`
	IsPublic   bool           `json:"is_public"`
	Books      []WishlistBook `json:"books"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type WishlistBook struct {
	BookID          uuid.UUID       `json:"book_id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	Price           decimal.Decimal `json:"price"`
	PrimaryImageURL string          `json:"primary_image_url"`
	IsInStock       bool            `json:"is_in_stock"`
	AddedAt         time.Time       `json:"added_at"`
}

// AdminCustomer is a row of the staff customer list
type AdminCustomer struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Phone       string          `json:"phone"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	CreatedAt   time.Time       `json:"created_at"`
}

type AdminListFilter struct {
	Search string
	Page   int
	Limit  int
}
