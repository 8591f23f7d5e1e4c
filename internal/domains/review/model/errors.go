package model

import "buxta-backend/internal/shared/apperror"

var (
	ErrReviewNotFound  = apperror.NotFound("REVIEW_NOT_FOUND", "Review not found")
	ErrBookNotFound    = apperror.NotFound("BOOK_NOT_FOUND", "Book not found")
	ErrAlreadyReviewed = apperror.Conflict("ALREADY_REVIEWED", "You have already reviewed this book")
	ErrInvalidAction   = apperror.BadRequest("INVALID_ACTION", "Invalid action")
	ErrNoReviewsChosen = apperror.BadRequest("NO_REVIEWS_SELECTED", "No reviews selected")
)
