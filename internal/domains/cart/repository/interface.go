package repository

import (
	"context"
	"time"

	"buxta-backend/internal/domains/cart/model"

	"github.com/google/uuid"
)

type Repository interface {
	// GetOrCreateByCustomer and GetOrCreateBySession are upserts and also bump updated_at
	GetOrCreateByCustomer(ctx context.Context, customerID uuid.UUID) (uuid.UUID, error)
	GetOrCreateBySession(ctx context.Context, sessionKey string) (uuid.UUID, error)

	GetBookStock(ctx context.Context, bookID uuid.UUID) (*model.BookStock, error)
	ListItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)
	GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.CartItem, error)

	// AddItem inserts the line or increments it. Returns false when the
	// resulting quantity would exceed the book's stock.
	AddItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int) (bool, error)
	// SetItemQuantity returns false when quantity exceeds the book's stock
	SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error)
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error

	DeleteAbandonedSessionCarts(ctx context.Context, before time.Time) (int64, error)
}
