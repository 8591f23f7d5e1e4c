package model

import "buxta-backend/internal/shared/apperror"

var (
	ErrCustomerNotFound = apperror.NotFound("CUSTOMER_NOT_FOUND", "Customer not found")
	ErrAddressNotFound  = apperror.NotFound("ADDRESS_NOT_FOUND", "Address not found")
	ErrBookNotFound     = apperror.NotFound("BOOK_NOT_FOUND", "Book not found")
	ErrNotInWishlist    = apperror.NotFound("NOT_IN_WISHLIST", "Book is not in your wishlist")
)
