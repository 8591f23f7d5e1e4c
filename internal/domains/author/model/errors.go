package model

import "buxta-backend/internal/shared/apperror"

var (
	ErrAuthorNotFound = apperror.NotFound("AUTHOR_NOT_FOUND", "Author not found")
	ErrAuthorHasBooks = apperror.Conflict("AUTHOR_HAS_BOOKS", "Cannot delete author with associated books. Please remove books first.")
)
