package service

import (
	"context"
	"fmt"
	"time"

	"buxta-backend/internal/domains/cart/model"
	"buxta-backend/internal/domains/cart/repository"
	customermodel "buxta-backend/internal/domains/customer/model"
	"buxta-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceInterface interface {
	GetOrCreateCartByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	GetOrCreateCartBySession(ctx context.Context, sessionKey string) (uuid.UUID, error)

	CartData(ctx context.Context, cartID uuid.UUID) (*model.CartData, error)
	AddItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int) (*model.MutationResult, error)
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*model.MutationResult, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.MutationResult, error)

	CleanupAbandoned(ctx context.Context, olderThanDays int) (int64, error)
}

type CustomerResolver interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*customermodel.Customer, error)
}

type cartService struct {
	repo      repository.Repository
	customers CustomerResolver
	now       func() time.Time
}

func NewCartService(repo repository.Repository, customers CustomerResolver) ServiceInterface {
	return &cartService{repo: repo, customers: customers, now: time.Now}
}

func (s *cartService) GetOrCreateCartByUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	customer, err := s.customers.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return s.repo.GetOrCreateByCustomer(ctx, customer.ID)
}

func (s *cartService) GetOrCreateCartBySession(ctx context.Context, sessionKey string) (uuid.UUID, error) {
	return s.repo.GetOrCreateBySession(ctx, sessionKey)
}

func (s *cartService) CartData(ctx context.Context, cartID uuid.UUID) (*model.CartData, error) {
	items, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return model.NewCartData(items), nil
}

// AddItem adds quantity copies, or tops up an existing line
func (s *cartService) AddItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int) (*model.MutationResult, error) {
	// missing quantity means one copy
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}

	// precheck for a specific message; the repository re-checks stock atomically
	book, err := s.repo.GetBookStock(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, model.ErrBookNotFound
	}
	if book.StockQuantity <= 0 {
		return nil, model.ErrOutOfStock
	}

	// false means the line would exceed stock, possibly after a concurrent add
	added, err := s.repo.AddItem(ctx, cartID, bookID, quantity)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, model.ErrMaxStockReached
	}

	return s.result(ctx, cartID, "Book added to cart", nil)
}

// UpdateItem sets the line quantity; zero or less removes the line
func (s *cartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*model.MutationResult, error) {
	item, err := s.repo.GetItem(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.repo.DeleteItem(ctx, cartID, itemID); err != nil {
			return nil, err
		}
		return s.result(ctx, cartID, "Item removed from cart", nil)
	}

	ok, err := s.repo.SetItemQuantity(ctx, cartID, itemID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrExceedsStock
	}

	item.Quantity = quantity
	total := item.LineTotal()
	return s.result(ctx, cartID, "Cart updated", &total)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.MutationResult, error) {
	if err := s.repo.DeleteItem(ctx, cartID, itemID); err != nil {
		return nil, err
	}
	return s.result(ctx, cartID, "Item removed from cart", nil)
}

func (s *cartService) CleanupAbandoned(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("older_than_days must be positive, got %d", olderThanDays)
	}
	cutoff := s.now().AddDate(0, 0, -olderThanDays)
	deleted, err := s.repo.DeleteAbandonedSessionCarts(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("abandoned carts removed", map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff,
	})
	return deleted, nil
}

func (s *cartService) result(ctx context.Context, cartID uuid.UUID, message string, itemTotal *decimal.Decimal) (*model.MutationResult, error) {
	data, err := s.CartData(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return &model.MutationResult{
		Message: message,
		Totals: model.Totals{
			CartCount:    data.TotalItems,
			CartSubtotal: data.Subtotal,
			ItemTotal:    itemTotal,
		},
	}, nil
}
