package model

import "buxta-backend/internal/shared/apperror"

var (
	ErrPublisherNotFound   = apperror.NotFound("PUBLISHER_NOT_FOUND", "Publisher not found")
	ErrPublisherNameExists = apperror.Conflict("PUBLISHER_NAME_EXISTS", "A publisher with this name already exists")
	ErrPublisherHasBooks   = apperror.Conflict("PUBLISHER_HAS_BOOKS", "Cannot delete publisher with associated books. Please reassign or delete books first.")
)
