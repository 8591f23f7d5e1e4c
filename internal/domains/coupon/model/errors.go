package model

import "buxta-backend/internal/shared/apperror"

var (
	ErrCouponNotFound = apperror.NotFound("COUPON_NOT_FOUND", "Coupon not found")
	ErrCodeExists     = apperror.Conflict("COUPON_CODE_EXISTS", "A coupon with this code already exists")
)
