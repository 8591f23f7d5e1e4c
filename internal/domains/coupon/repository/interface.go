package repository

import (
	"context"

	"buxta-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Coupon, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, c *model.Coupon) error
	Update(ctx context.Context, c *model.Coupon) error
	ListUsages(ctx context.Context, couponID uuid.UUID) ([]model.Usage, error)
}
