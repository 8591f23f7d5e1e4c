package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// CouponInput is shared by create and update
type CouponInput struct {
	Code                  string           `json:"code"`
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	CouponType            string           `json:"coupon_type"`
	Value                 *decimal.Decimal `json:"value"`
	MinimumAmount         *decimal.Decimal `json:"minimum_amount"`
	MaximumDiscount       *decimal.Decimal `json:"maximum_discount"`
	UsageLimit            *int             `json:"usage_limit"`
	UsageLimitPerCustomer *int             `json:"usage_limit_per_customer"`
	IsActive              *bool            `json:"is_active"`
	ValidFrom             time.Time        `json:"valid_from"`
	ValidUntil            time.Time        `json:"valid_until"`
}

func (in *CouponInput) Normalize() {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.CouponType = strings.ToLower(strings.TrimSpace(in.CouponType))
}

func (in CouponInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Code,
			validation.Required.Error("Coupon code is required"),
			validation.RuneLength(3, 50).Error("Coupon code must be 3-50 characters"),
			validation.Match(codePattern).Error("Coupon code may only contain letters, digits, '-' and '_'"),
		),
		validation.Field(&in.Name, validation.Required.Error("Name is required"), validation.RuneLength(0, 200)),
		validation.Field(&in.CouponType,
			validation.Required.Error("Coupon type is required"),
			validation.In(TypePercentage, TypeFixedAmount, TypeFreeShipping).Error("Invalid coupon type"),
		),
		validation.Field(&in.Value, validation.NotNil.Error("Value is required"), validation.By(in.checkValue)),
		validation.Field(&in.MinimumAmount, validation.By(nonNegative("Minimum amount cannot be negative"))),
		validation.Field(&in.MaximumDiscount, validation.By(nonNegative("Maximum discount cannot be negative"))),
		validation.Field(&in.UsageLimit, validation.By(atLeastOne("Usage limit must be at least 1"))),
		validation.Field(&in.UsageLimitPerCustomer, validation.By(atLeastOne("Per-customer limit must be at least 1"))),
		validation.Field(&in.ValidFrom, validation.Required.Error("Valid from is required")),
		validation.Field(&in.ValidUntil, validation.Required.Error("Valid until is required"), validation.By(in.checkWindow)),
	)
}

func (in CouponInput) checkValue(_ interface{}) error {
	if in.Value == nil {
		return nil
	}
	if !in.Value.IsPositive() {
		return errors.New("Value must be greater than 0")
	}
	if in.CouponType == TypePercentage && in.Value.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("Percentage cannot exceed 100")
	}
	return nil
}

func (in CouponInput) checkWindow(_ interface{}) error {
	if in.ValidFrom.IsZero() || in.ValidUntil.IsZero() {
		return nil
	}
	if !in.ValidUntil.After(in.ValidFrom) {
		return errors.New("Valid until must be after valid from")
	}
	return nil
}

func nonNegative(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		d, _ := value.(*decimal.Decimal)
		if d != nil && d.IsNegative() {
			return errors.New(msg)
		}
		return nil
	}
}

// atLeastOne checks an optional count; Min would treat 0 as empty and skip it
func atLeastOne(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		n, _ := value.(*int)
		if n != nil && *n < 1 {
			return errors.New(msg)
		}
		return nil
	}
}

// Apply copies the input onto c, filling defaults for omitted optional fields
func (in CouponInput) Apply(c *Coupon) {
	c.Code = in.Code
	c.Name = in.Name
	c.Description = in.Description
	c.CouponType = in.CouponType
	c.Value = *in.Value
	c.MinimumAmount = decimal.Zero
	if in.MinimumAmount != nil {
		c.MinimumAmount = *in.MinimumAmount
	}
	c.MaximumDiscount = in.MaximumDiscount
	c.UsageLimit = in.UsageLimit
	c.UsageLimitPerCustomer = DefaultUsageLimitPerCustomer
	if in.UsageLimitPerCustomer != nil {
		c.UsageLimitPerCustomer = *in.UsageLimitPerCustomer
	}
	c.IsActive = in.IsActive == nil || *in.IsActive
	c.ValidFrom = in.ValidFrom
	c.ValidUntil = in.ValidUntil
}
