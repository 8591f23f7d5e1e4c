package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypePercentage   = "percentage"
	TypeFixedAmount  = "fixed_amount"
	TypeFreeShipping = "free_shipping"

	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusExpired  = "expired"

	DefaultUsageLimitPerCustomer = 1
	AdminPageSize                = 20
)

// Coupon is a discount code managed by staff. Nothing applies coupons to orders yet;
// usages are recorded elsewhere and only read here.
type Coupon struct {
	ID                    uuid.UUID        `json:"id"`
	Code                  string           `json:"code"`
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	CouponType            string           `json:"coupon_type"`
	Value                 decimal.Decimal  `json:"value"`
	MinimumAmount         decimal.Decimal  `json:"minimum_amount"`
	MaximumDiscount       *decimal.Decimal `json:"maximum_discount"`
	UsageLimit            *int             `json:"usage_limit"`
	UsageLimitPerCustomer int              `json:"usage_limit_per_customer"`
	UsedCount             int              `json:"used_count"`
	IsActive              bool             `json:"is_active"`
	ValidFrom             time.Time        `json:"valid_from"`
	ValidUntil            time.Time        `json:"valid_until"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`

	IsValidNow bool `json:"is_valid"`
}

// IsValid reports whether the coupon could be redeemed at now
func (c *Coupon) IsValid(now time.Time) bool {
	return c.IsActive &&
		!now.Before(c.ValidFrom) && !now.After(c.ValidUntil) &&
		(c.UsageLimit == nil || c.UsedCount < *c.UsageLimit)
}

type Usage struct {
	ID             uuid.UUID       `json:"id"`
	CouponID       uuid.UUID       `json:"coupon_id"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	OrderID        uuid.UUID       `json:"order_id"`
	OrderNumber    string          `json:"order_number"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	UsedAt         time.Time       `json:"used_at"`
}

// PublicCoupon is all an anonymous visitor learns about a code
type PublicCoupon struct {
	Code    string `json:"code"`
	IsValid bool   `json:"is_valid"`
}

type ListFilter struct {
	Status string
	Search string
	Now    time.Time
	Page   int
	Limit  int
}
