package model

import "buxta-backend/internal/shared/apperror"

var (
	ErrBookNotFound     = apperror.NotFound("BOOK_NOT_FOUND", "Book not found")
	ErrTitleExists      = apperror.Conflict("BOOK_TITLE_EXISTS", "A book with this title already exists")
	ErrISBN13Exists     = apperror.Conflict("ISBN13_EXISTS", "ISBN-13 already exists")
	ErrISBN10Exists     = apperror.Conflict("ISBN10_EXISTS", "ISBN-10 already exists")
	ErrBookHasOrders    = apperror.Conflict("BOOK_HAS_ORDERS", "This book has been ordered and cannot be deleted. Deactivate it instead.")
	ErrUnknownAuthor    = apperror.BadRequest("UNKNOWN_AUTHOR", "One or more selected authors do not exist")
	ErrUnknownCategory  = apperror.BadRequest("UNKNOWN_CATEGORY", "One or more selected categories do not exist")
	ErrUnknownPublisher = apperror.BadRequest("UNKNOWN_PUBLISHER", "Selected publisher does not exist")

	ErrImageNotFound = apperror.NotFound("IMAGE_NOT_FOUND", "Image not found")
	ErrNoImages      = apperror.BadRequest("NO_IMAGES", "No images provided")
	ErrOnlyImage     = apperror.BadRequest("ONLY_IMAGE", "Cannot delete the only image. Please upload a replacement first.")
	ErrInvalidImage  = apperror.BadRequest("INVALID_IMAGE", "Invalid image")
)
