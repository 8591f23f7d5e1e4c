package model

import (
	"fmt"
	"net/url"
	"strings"
)

// HandoffMessage renders the order summary staff receive over WhatsApp.
// Items must be loaded.
func HandoffMessage(o *Order, currency string) string {
	var b strings.Builder

	b.WriteString("📚 *BOOKSTORE ORDER REQUEST*\n\n")
	fmt.Fprintf(&b, "*Order #:* %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "*Customer:* %s\n", o.Billing.FullName())
	fmt.Fprintf(&b, "*Phone:* %s\n", o.Billing.Phone)
	fmt.Fprintf(&b, "*Total:* %s %s\n\n", currency, o.TotalAmount.StringFixed(2))

	b.WriteString("*ITEMS:*\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %s x %d - %s %s\n", it.BookTitle, it.Quantity, currency, it.Total.StringFixed(2))
	}

	b.WriteString("\n*SHIPPING ADDRESS:*\n")
	writeAddress(&b, o.Shipping)
	fmt.Fprintf(&b, "Phone: %s\n", o.Shipping.Phone)

	b.WriteString("\n*BILLING ADDRESS:*\n")
	writeAddress(&b, o.Billing)

	b.WriteString("\nPlease process this order and contact customer for payment details.")
	return b.String()
}

func writeAddress(b *strings.Builder, a Address) {
	fmt.Fprintf(b, "%s\n", a.FullName())
	fmt.Fprintf(b, "%s\n", a.AddressLine1)
	if a.AddressLine2 != "" {
		fmt.Fprintf(b, "%s\n", a.AddressLine2)
	}
	fmt.Fprintf(b, "%s, %s\n", a.City, a.State)
	fmt.Fprintf(b, "%s, %s\n", a.PostalCode, a.Country)
}

// HandoffURL builds the wa.me deep link carrying the message
func HandoffURL(number, message string) string {
	// QueryEscape encodes spaces as '+', WhatsApp expects %20
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + strings.TrimPrefix(number, "+") + "?text=" + text
}
