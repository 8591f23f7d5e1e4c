package repository

import (
	"context"

	"buxta-backend/internal/domains/customer/model"

	"github.com/google/uuid"
)

type Repository interface {
	// GetOrCreateByUser is an upsert, concurrent first requests resolve to one row
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Customer, error)
	UpdateProfile(ctx context.Context, c *model.Customer) error
	AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.AdminCustomer, int, error)

	ListAddresses(ctx context.Context, customerID uuid.UUID) ([]model.Address, error)
	GetAddress(ctx context.Context, customerID, id uuid.UUID) (*model.Address, error)
	CreateAddress(ctx context.Context, a *model.Address) error
	UpdateAddress(ctx context.Context, a *model.Address) error
	DeleteAddress(ctx context.Context, customerID, id uuid.UUID) error
	SetDefaultAddress(ctx context.Context, customerID, id uuid.UUID) error

	GetOrCreateWishlist(ctx context.Context, customerID uuid.UUID) (*model.Wishlist, error)
	UpdateWishlist(ctx context.Context, w *model.Wishlist) error
	AddWishlistBook(ctx context.Context, wishlistID, bookID uuid.UUID) error
	RemoveWishlistBook(ctx context.Context, wishlistID, bookID uuid.UUID) error
}
