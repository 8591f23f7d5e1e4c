package repository

import (
	"context"
	"time"

	"buxta-backend/internal/domains/order/model"

	"github.com/google/uuid"
)

type Repository interface {
	ListCartLines(ctx context.Context, cartID uuid.UUID) ([]model.CartLine, error)

	// PlaceOrder turns the cart into an order in one transaction: stock is
	// decremented, the order with its items and first history row is written
	// and the cart is emptied. nextNumber is called again on a number collision.
	PlaceOrder(ctx context.Context, cartID uuid.UUID, o *model.Order, nextNumber func() string) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)
	AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.Order, int, error)

	// UpdateStatus fails with ErrVersionMismatch when version is stale
	UpdateStatus(ctx context.Context, id uuid.UUID, status, notes string, staffID *uuid.UUID, version int, at time.Time) error

	LowStockBooks(ctx context.Context, bookIDs []uuid.UUID) ([]model.LowStockBook, error)
}
