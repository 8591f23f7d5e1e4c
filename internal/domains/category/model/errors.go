package model

import "buxta-backend/internal/shared/apperror"

var (
	ErrCategoryNotFound   = apperror.NotFound("CATEGORY_NOT_FOUND", "Category not found")
	ErrCategoryNameExists = apperror.Conflict("CATEGORY_NAME_EXISTS", "A category with this name already exists")
	ErrCategoryHasBooks   = apperror.Conflict("CATEGORY_HAS_BOOKS", "Cannot delete category with associated books. Please reassign or remove books first.")
	ErrInvalidParent      = apperror.BadRequest("INVALID_PARENT", "A category cannot be its own parent")
	ErrParentNotFound     = apperror.BadRequest("PARENT_NOT_FOUND", "Parent category not found")
)
