package model

import (
	"net/http"

	"buxta-backend/internal/shared/apperror"
)

var (
	ErrUserNotFound       = apperror.NotFound("USER_NOT_FOUND", "User not found")
	ErrEmailAlreadyExists = apperror.Conflict("EMAIL_ALREADY_EXISTS", "An account with this email already exists")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrUserInactive       = apperror.New(http.StatusForbidden, "USER_INACTIVE", "This account has been disabled")
)
