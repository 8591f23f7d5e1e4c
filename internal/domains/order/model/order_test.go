package model

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"buxta-backend/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *Order {
	return &Order{
		OrderNumber: "BX12345678",
		Billing: Address{
			FirstName: "Amina", LastName: "Otieno", Phone: "0712000000",
			AddressLine1: "12 Moi Avenue", City: "Nairobi", State: "Nairobi",
			PostalCode: "00100", Country: "Kenya",
		},
		Shipping: Address{
			FirstName: "Amina", LastName: "Otieno", Phone: "0712000000",
			AddressLine1: "12 Moi Avenue", AddressLine2: "Floor 3", City: "Nairobi", State: "Nairobi",
			PostalCode: "00100", Country: "Kenya",
		},
		TotalAmount: decimal.NewFromInt(2200),
		Items: []OrderItem{
			{BookTitle: "River Between", Quantity: 2, Price: decimal.NewFromInt(500), Total: decimal.NewFromInt(1000)},
			{BookTitle: "Petals of Blood", Quantity: 1, Price: decimal.NewFromInt(1200), Total: decimal.NewFromInt(1200)},
		},
	}
}

func TestHandoffMessage(t *testing.T) {
	msg := HandoffMessage(sampleOrder(), "KSh")

	expected := strings.Join([]string{
		"📚 *BOOKSTORE ORDER REQUEST*",
		"",
		"*Order #:* BX12345678",
		"*Customer:* Amina Otieno",
		"*Phone:* 0712000000",
		"*Total:* KSh 2200.00",
		"",
		"*ITEMS:*",
		"• River Between x 2 - KSh 1000.00",
		"• Petals of Blood x 1 - KSh 1200.00",
		"",
		"*SHIPPING ADDRESS:*",
		"Amina Otieno",
		"12 Moi Avenue",
		"Floor 3",
		"Nairobi, Nairobi",
		"00100, Kenya",
		"Phone: 0712000000",
		"",
		"*BILLING ADDRESS:*",
		"Amina Otieno",
		"12 Moi Avenue",
		"Nairobi, Nairobi",
		"00100, Kenya",
		"",
		"Please process this order and contact customer for payment details.",
	}, "\n")
	assert.Equal(t, expected, msg)
}

func TestHandoffURL(t *testing.T) {
	msg := "Hi there\n*Total:* KSh 10 & more+"
	link := HandoffURL("+254712345678", msg)

	require.True(t, strings.HasPrefix(link, "https://wa.me/254712345678?text="))
	assert.NotContains(t, link, "+", "spaces must be %20 and plus signs escaped")
	assert.Contains(t, link, "Hi%20there%0A")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, msg, u.Query().Get("text"))
}

func TestNewOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^BX[0-9]{8}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, NewOrderNumber())
	}
}

func TestOrderDerive(t *testing.T) {
	o := sampleOrder()
	for status, cancellable := range map[string]bool{
		StatusPending: true, StatusConfirmed: true, StatusProcessing: false,
		StatusShipped: false, StatusDelivered: false, StatusCancelled: false, StatusRefunded: false,
	} {
		o.Status = status
		o.Derive()
		assert.Equal(t, cancellable, o.CanBeCancelled, status)
		assert.Equal(t, statusLabels[status], o.StatusDisplay, status)
	}

	o.Status = StatusRefunded
	o.Derive()
	assert.Equal(t, "Refunded", o.StatusDisplay)
	assert.Equal(t, "Amina Otieno", o.BillingFullName)
	assert.Equal(t, "Amina Otieno", o.ShippingFullName)
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		BillingFirstName:    " Amina ",
		BillingLastName:     "Otieno",
		BillingEmail:        "Amina@Example.com",
		BillingPhone:        "0712000000",
		BillingAddressLine1: "12 Moi Avenue",
		BillingCity:         "Nairobi",
		BillingState:        "Nairobi",
		BillingPostalCode:   "00100",
	}
}

func TestPlaceOrderInputSameShipping(t *testing.T) {
	in := validInput()
	in.Normalize()
	require.NoError(t, in.Validate())

	billing, shipping := in.Addresses()
	assert.Equal(t, "Amina", billing.FirstName)
	assert.Equal(t, "amina@example.com", billing.Email)
	assert.Equal(t, DefaultCountry, billing.Country)
	assert.Equal(t, billing.AddressLine1, shipping.AddressLine1)
	assert.Equal(t, billing.Phone, shipping.Phone)
	assert.Equal(t, DefaultCountry, shipping.Country)
}

func TestPlaceOrderInputSeparateShipping(t *testing.T) {
	no := false
	in := validInput()
	in.UseSameShipping = &no
	in.Normalize()

	err := in.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Shipping address is required")

	in.ShippingFirstName = "Baraka"
	in.ShippingLastName = "Mwangi"
	in.ShippingAddressLine1 = "4 Nyerere Road"
	in.ShippingCity = "Mombasa"
	in.ShippingState = "Mombasa"
	in.ShippingPostalCode = "80100"
	in.Normalize()
	require.NoError(t, in.Validate())

	_, shipping := in.Addresses()
	assert.Equal(t, "Mombasa", shipping.City)
	assert.Equal(t, DefaultCountry, shipping.Country)
}

func TestPlaceOrderInputRequiredFields(t *testing.T) {
	in := PlaceOrderInput{BillingEmail: "not-an-email"}
	in.Normalize()
	err := in.Validate()
	require.Error(t, err)
	for _, msg := range []string{"First name is required", "Phone number is required", "Please enter a valid email address"} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestStatusUpdateInput(t *testing.T) {
	v := 3
	in := StatusUpdateInput{Status: " Shipped ", Version: &v}
	in.Normalize()
	assert.NoError(t, in.Validate())

	in = StatusUpdateInput{Status: "lost", Version: &v}
	assert.Error(t, in.Validate())

	in = StatusUpdateInput{Status: StatusPending}
	assert.Error(t, in.Validate())
}

func TestInsufficientStockMessage(t *testing.T) {
	err := InsufficientStock(1, "Dune")
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	appErr, ok := apperror.From(err)
	require.True(t, ok)
	assert.Equal(t, "Sorry, only 1 copies of 'Dune' are available", appErr.Message)
}
