package model

import (
	"strings"
	"time"

	customermodel "buxta-backend/internal/domains/customer/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultCountry = "Kenya"
	AdminPageSize  = 20
)

// PlaceOrderInput is the checkout form
type PlaceOrderInput struct {
	BillingFirstName    string `json:"billing_first_name"`
	BillingLastName     string `json:"billing_last_name"`
	BillingEmail        string `json:"billing_email"`
	BillingPhone        string `json:"billing_phone"`
	BillingAddressLine1 string `json:"billing_address_line_1"`
	BillingAddressLine2 string `json:"billing_address_line_2"`
	BillingCity         string `json:"billing_city"`
	BillingState        string `json:"billing_state"`
	BillingPostalCode   string `json:"billing_postal_code"`
	BillingCountry      string `json:"billing_country"`

	// nil means true
	UseSameShipping *bool `json:"use_same_shipping"`

	ShippingFirstName    string `json:"shipping_first_name"`
	ShippingLastName     string `json:"shipping_last_name"`
	ShippingPhone        string `json:"shipping_phone"`
	ShippingAddressLine1 string `json:"shipping_address_line_1"`
	ShippingAddressLine2 string `json:"shipping_address_line_2"`
	ShippingCity         string `json:"shipping_city"`
	ShippingState        string `json:"shipping_state"`
	ShippingPostalCode   string `json:"shipping_postal_code"`
	ShippingCountry      string `json:"shipping_country"`

	Notes string `json:"notes"`
}

func (in *PlaceOrderInput) SameShipping() bool {
	return in.UseSameShipping == nil || *in.UseSameShipping
}

func (in *PlaceOrderInput) Normalize() {
	for _, f := range []*string{
		&in.BillingFirstName, &in.BillingLastName, &in.BillingEmail, &in.BillingPhone,
		&in.BillingAddressLine1, &in.BillingAddressLine2, &in.BillingCity, &in.BillingState,
		&in.BillingPostalCode, &in.BillingCountry,
		&in.ShippingFirstName, &in.ShippingLastName, &in.ShippingPhone,
		&in.ShippingAddressLine1, &in.ShippingAddressLine2, &in.ShippingCity, &in.ShippingState,
		&in.ShippingPostalCode, &in.ShippingCountry, &in.Notes,
	} {
		*f = strings.TrimSpace(*f)
	}
	in.BillingEmail = strings.ToLower(in.BillingEmail)
	if in.BillingCountry == "" {
		in.BillingCountry = DefaultCountry
	}

	if in.SameShipping() {
		in.ShippingFirstName = in.BillingFirstName
		in.ShippingLastName = in.BillingLastName
		in.ShippingPhone = in.BillingPhone
		in.ShippingAddressLine1 = in.BillingAddressLine1
		in.ShippingAddressLine2 = in.BillingAddressLine2
		in.ShippingCity = in.BillingCity
		in.ShippingState = in.BillingState
		in.ShippingPostalCode = in.BillingPostalCode
		in.ShippingCountry = in.BillingCountry
	} else if in.ShippingCountry == "" {
		in.ShippingCountry = DefaultCountry
	}
}

func (in PlaceOrderInput) Validate() error {
	separate := !in.SameShipping()
	return validation.ValidateStruct(&in,
		validation.Field(&in.BillingFirstName, validation.Required.Error("First name is required"), validation.RuneLength(0, 100)),
		validation.Field(&in.BillingLastName, validation.Required.Error("Last name is required"), validation.RuneLength(0, 100)),
		validation.Field(&in.BillingEmail, is.EmailFormat.Error("Please enter a valid email address"), validation.RuneLength(0, 255)),
		validation.Field(&in.BillingPhone, validation.Required.Error("Phone number is required"), validation.RuneLength(0, 20)),
		validation.Field(&in.BillingAddressLine1, validation.Required.Error("Address is required"), validation.RuneLength(0, 255)),
		validation.Field(&in.BillingAddressLine2, validation.RuneLength(0, 255)),
		validation.Field(&in.BillingCity, validation.Required.Error("City is required"), validation.RuneLength(0, 100)),
		validation.Field(&in.BillingState, validation.Required.Error("State is required"), validation.RuneLength(0, 100)),
		validation.Field(&in.BillingPostalCode, validation.Required.Error("Postal code is required"), validation.RuneLength(0, 20)),
		validation.Field(&in.BillingCountry, validation.RuneLength(0, 100)),

		validation.Field(&in.ShippingFirstName, validation.When(separate, validation.Required.Error("Shipping first name is required")), validation.RuneLength(0, 100)),
		validation.Field(&in.ShippingLastName, validation.When(separate, validation.Required.Error("Shipping last name is required")), validation.RuneLength(0, 100)),
		validation.Field(&in.ShippingPhone, validation.RuneLength(0, 20)),
		validation.Field(&in.ShippingAddressLine1, validation.When(separate, validation.Required.Error("Shipping address is required")), validation.RuneLength(0, 255)),
		validation.Field(&in.ShippingAddressLine2, validation.RuneLength(0, 255)),
		validation.Field(&in.ShippingCity, validation.When(separate, validation.Required.Error("Shipping city is required")), validation.RuneLength(0, 100)),
		validation.Field(&in.ShippingState, validation.When(separate, validation.Required.Error("Shipping state is required")), validation.RuneLength(0, 100)),
		validation.Field(&in.ShippingPostalCode, validation.When(separate, validation.Required.Error("Shipping postal code is required")), validation.RuneLength(0, 20)),
		validation.Field(&in.ShippingCountry, validation.RuneLength(0, 100)),
	)
}

// Addresses returns the billing and shipping blocks of a normalized input
func (in PlaceOrderInput) Addresses() (billing, shipping Address) {
	billing = Address{
		FirstName:    in.BillingFirstName,
		LastName:     in.BillingLastName,
		Email:        in.BillingEmail,
		AddressLine1: in.BillingAddressLine1,
		AddressLine2: in.BillingAddressLine2,
		City:         in.BillingCity,
		State:        in.BillingState,
		PostalCode:   in.BillingPostalCode,
		Country:      in.BillingCountry,
		Phone:        in.BillingPhone,
	}
	shipping = Address{
		FirstName:    in.ShippingFirstName,
		LastName:     in.ShippingLastName,
		AddressLine1: in.ShippingAddressLine1,
		AddressLine2: in.ShippingAddressLine2,
		City:         in.ShippingCity,
		State:        in.ShippingState,
		PostalCode:   in.ShippingPostalCode,
		Country:      in.ShippingCountry,
		Phone:        in.ShippingPhone,
	}
	return billing, shipping
}

type PlaceOrderResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	RedirectURL string          `json:"redirect_url"`
}

// CheckoutSummary is what GET /checkout shows before placing the order
type CheckoutSummary struct {
	Lines      []CheckoutLine  `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`

	// Addresses holds the default addresses of a signed-in customer
	Addresses []customermodel.Address `json:"addresses,omitempty"`
}

type CheckoutLine struct {
	BookID    uuid.UUID       `json:"book_id"`
	BookTitle string          `json:"book_title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

type StatusUpdateInput struct {
	Status  string `json:"status"`
	Notes   string `json:"notes"`
	Version *int   `json:"version"`
}

func (in *StatusUpdateInput) Normalize() {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.Notes = strings.TrimSpace(in.Notes)
}

func (in StatusUpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Status, validation.Required.Error("Status is required"), validation.In(toAny(Statuses)...).Error("Invalid status")),
		validation.Field(&in.Version, validation.NotNil.Error("Version is required")),
	)
}

type AdminListFilter struct {
	Search   string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
