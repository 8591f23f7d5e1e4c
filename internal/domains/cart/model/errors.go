package model

import "buxta-backend/internal/shared/apperror"

var (
	ErrBookNotFound    = apperror.NotFound("BOOK_NOT_FOUND", "Book not found")
	ErrItemNotFound    = apperror.NotFound("CART_ITEM_NOT_FOUND", "Cart item not found")
	ErrOutOfStock      = apperror.BadRequest("OUT_OF_STOCK", "This book is out of stock")
	ErrMaxStockReached = apperror.BadRequest("MAX_STOCK_REACHED", "Maximum stock quantity reached")
	ErrExceedsStock    = apperror.BadRequest("EXCEEDS_STOCK", "Quantity exceeds available stock")
	ErrInvalidQuantity = apperror.BadRequest("INVALID_QUANTITY", "Quantity must be at least 1")
)
