package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"buxta-backend/pkg/logger"
)

// OrderNotification is the content of the "new order" e-mail sent to staff
type OrderNotification struct {
	To           string
	OrderNumber  string
	CustomerName string
	Phone        string
	Total        string
	Lines        []string
}

type EmailService interface {
	SendOrderNotification(ctx context.Context, n OrderNotification) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

// NewSMTPEmailService sends plain-text mail through an unauthenticated relay (MailHog in development)
func NewSMTPEmailService(host, port, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: host + ":" + port,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendOrderNotification(ctx context.Context, n OrderNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := BuildOrderNotification(s.smtpFrom, n)
	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{n.To}, msg); err != nil {
		logger.Warn("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        n.To,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildOrderNotification renders the RFC 822 message
func BuildOrderNotification(from string, n OrderNotification) []byte {
	var body strings.Builder
	fmt.Fprintf(&body, "A new order was placed and handed off to WhatsApp.\r\n\r\n")
	fmt.Fprintf(&body, "Order #: %s\r\nCustomer: %s\r\nPhone: %s\r\nTotal: %s\r\n\r\n", n.OrderNumber, n.CustomerName, n.Phone, n.Total)
	for _, line := range n.Lines {
		fmt.Fprintf(&body, "- %s\r\n", line)
	}

	return []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: New order %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, n.To, n.OrderNumber, body.String()))
}
