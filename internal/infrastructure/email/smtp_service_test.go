package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildOrderNotification(t *testing.T) {
	msg := string(BuildOrderNotification("noreply@buxta.co.ke", OrderNotification{
		To:           "orders@buxta.co.ke",
		OrderNumber:  "BX12345678",
		CustomerName: "Amina Otieno",
		Phone:        "0712000000",
		Total:        "KSh 2200.00",
		Lines:        []string{"Book A x 2 - KSh 1000.00", "Book B x 1 - KSh 1200.00"},
	}))

	assert.True(t, strings.HasPrefix(msg, "From: noreply@buxta.co.ke\r\nTo: orders@buxta.co.ke\r\n"))
	assert.Contains(t, msg, "Subject: New order BX12345678")
	assert.Contains(t, msg, "Total: KSh 2200.00")
	assert.Contains(t, msg, "- Book B x 1 - KSh 1200.00\r\n")
}
