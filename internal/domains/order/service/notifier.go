package service

import (
	"context"
	"fmt"

	"buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/infrastructure/email"
)

type emailNotifier struct {
	mail     email.EmailService
	to       string
	currency string
}

// NewEmailNotifier mails new orders to the staff inbox. An empty address disables it.
func NewEmailNotifier(mail email.EmailService, to, currency string) Notifier {
	return &emailNotifier{mail: mail, to: to, currency: currency}
}

func (n *emailNotifier) OrderPlaced(ctx context.Context, o *model.Order) error {
	if n.to == "" {
		return nil
	}

	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("%s x %d - %s %s", it.BookTitle, it.Quantity, n.currency, it.Total.StringFixed(2)))
	}

	return n.mail.SendOrderNotification(ctx, email.OrderNotification{
		To:           n.to,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.Billing.FullName(),
		Phone:        o.Billing.Phone,
		Total:        n.currency + " " + o.TotalAmount.StringFixed(2),
		Lines:        lines,
	})
}
