package model

import (
	"net/http"

	"buxta-backend/internal/shared/apperror"
)

var (
	ErrOrderNotFound      = apperror.NotFound("ORDER_NOT_FOUND", "Order not found")
	ErrNoRecentOrder      = apperror.NotFound("NO_RECENT_ORDER", "No recent order found")
	ErrCartEmpty          = apperror.BadRequest("CART_EMPTY", "Your cart is empty")
	ErrInsufficientStock  = apperror.BadRequest("INSUFFICIENT_STOCK", "Not enough stock")
	ErrVersionMismatch    = apperror.Conflict("VERSION_MISMATCH", "Order was modified by someone else, reload and try again")
	ErrOrderNumberExhaust = apperror.New(http.StatusServiceUnavailable, "ORDER_NUMBER_UNAVAILABLE", "Could not allocate an order number, please try again")
)

// InsufficientStock names the line that cannot be fulfilled
func InsufficientStock(available int, title string) error {
	return ErrInsufficientStock.WithMessage("Sorry, only %d copies of '%s' are available", available, title)
}
