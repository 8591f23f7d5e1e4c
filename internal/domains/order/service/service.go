package service

import (
	"context"
	"time"

	customermodel "buxta-backend/internal/domains/customer/model"
	"buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/domains/order/repository"
	"buxta-backend/internal/infrastructure/queue"
	"buxta-backend/internal/shared"
	"buxta-backend/pkg/cache"
	"buxta-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

type ServiceInterface interface {
	Checkout(ctx context.Context, cartID uuid.UUID, userID *uuid.UUID) (*model.CheckoutSummary, error)
	PlaceOrder(ctx context.Context, cartID uuid.UUID, userID *uuid.UUID, in model.PlaceOrderInput) (*model.PlaceOrderResult, error)
	Confirmation(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.Order, int, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id, staffID uuid.UUID, in model.StatusUpdateInput) (*model.Order, error)

	// NotifyPlaced runs in the worker after an order commits
	NotifyPlaced(ctx context.Context, orderID uuid.UUID) error
}

// CustomerDirectory is the slice of the customer service orders need
type CustomerDirectory interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*customermodel.Customer, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]customermodel.Address, error)
}

// Notifier tells staff about a new order
type Notifier interface {
	OrderPlaced(ctx context.Context, o *model.Order) error
}

type Settings struct {
	WhatsAppNumber string
	Currency       string
}

type orderService struct {
	repo      repository.Repository
	customers CustomerDirectory
	queue     queue.Enqueuer
	cache     cache.Cache
	notifier  Notifier
	settings  Settings
	now       func() time.Time
	newNumber func() string
}

func NewOrderService(
	repo repository.Repository,
	customers CustomerDirectory,
	q queue.Enqueuer,
	c cache.Cache,
	notifier Notifier,
	settings Settings,
) ServiceInterface {
	return &orderService{
		repo:      repo,
		customers: customers,
		queue:     q,
		cache:     c,
		notifier:  notifier,
		settings:  settings,
		now:       time.Now,
		newNumber: model.NewOrderNumber,
	}
}

func (s *orderService) Checkout(ctx context.Context, cartID uuid.UUID, userID *uuid.UUID) (*model.CheckoutSummary, error) {
	lines, err := s.repo.ListCartLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, model.ErrCartEmpty
	}

	summary := &model.CheckoutSummary{Lines: make([]model.CheckoutLine, 0, len(lines)), Subtotal: decimal.Zero}
	for _, l := range lines {
		if l.Quantity > l.StockQuantity {
			return nil, model.InsufficientStock(l.StockQuantity, l.BookTitle)
		}
		total := l.Total()
		summary.Lines = append(summary.Lines, model.CheckoutLine{
			BookID:    l.BookID,
			BookTitle: l.BookTitle,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Total:     total,
		})
		summary.TotalItems += l.Quantity
		summary.Subtotal = summary.Subtotal.Add(total)
	}

	if userID != nil {
		addresses, err := s.customers.ListAddresses(ctx, *userID)
		if err != nil {
			return nil, err
		}
		for _, a := range addresses {
			if a.IsDefault {
				summary.Addresses = append(summary.Addresses, a)
			}
		}
	}
	return summary, nil
}

// PlaceOrder converts the cart into a pending order and returns the WhatsApp
// hand-off link. Guests order without a customer record.
func (s *orderService) PlaceOrder(ctx context.Context, cartID uuid.UUID, userID *uuid.UUID, in model.PlaceOrderInput) (*model.PlaceOrderResult, error) {
	// 1. Validate the checkout form
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	o := &model.Order{
		ID:             uuid.New(),
		Status:         model.StatusPending,
		TaxAmount:      decimal.Zero,
		ShippingCost:   decimal.Zero,
		DiscountAmount: decimal.Zero,
		Notes:          in.Notes,
		CreatedAt:      s.now(),
	}
	o.Billing, o.Shipping = in.Addresses()

	// 2. Attach the customer profile for signed-in shoppers
	if userID != nil {
		customer, err := s.customers.GetOrCreateByUser(ctx, *userID)
		if err != nil {
			return nil, err
		}
		o.CustomerID = &customer.ID
	}

	// 3. Stock, order rows and cart clearing commit together
	if err := s.repo.PlaceOrder(ctx, cartID, o, s.newNumber); err != nil {
		return nil, err
	}
	o.Derive()

	logger.Info("order placed", map[string]interface{}{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"total":        o.TotalAmount.StringFixed(2),
		"items":        len(o.Items),
	})

	// 4. Notifications and cache refresh run in the worker
	payload := shared.OrderPlacedPayload{OrderID: o.ID.String(), OrderNumber: o.OrderNumber}
	if err := s.queue.Enqueue(ctx, shared.TypeOrderPlaced, payload, asynq.Queue(shared.QueueCritical), asynq.MaxRetry(5)); err != nil {
		// the order is committed; staff still get the WhatsApp hand-off
		logger.Error("failed to enqueue order:placed", err)
	}

	// 5. Hand-off link carries the order summary
	message := model.HandoffMessage(o, s.settings.Currency)
	return &model.PlaceOrderResult{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		TotalAmount: o.TotalAmount,
		RedirectURL: model.HandoffURL(s.settings.WhatsAppNumber, message),
	}, nil
}

func (s *orderService) Confirmation(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *orderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	customer, err := s.customers.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, customer.ID)
}

func (s *orderService) AdminList(ctx context.Context, filter model.AdminListFilter) ([]model.Order, int, error) {
	if filter.Status != "" && !model.IsValidStatus(filter.Status) {
		filter.Status = ""
	}
	return s.repo.AdminList(ctx, filter)
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus applies a staff status change guarded by the order version
func (s *orderService) UpdateStatus(ctx context.Context, id, staffID uuid.UUID, in model.StatusUpdateInput) (*model.Order, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, in.Status, in.Notes, &staffID, *in.Version, s.now()); err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx)

	logger.Info("order status updated", map[string]interface{}{
		"order_id": id,
		"status":   in.Status,
		"staff_id": staffID,
	})
	return s.repo.GetByID(ctx, id)
}

// NotifyPlaced is the order:placed task body: refresh dashboard figures,
// warn about books that fell below their threshold, then e-mail staff.
func (s *orderService) NotifyPlaced(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	s.invalidateDashboard(ctx)

	// low stock only needs checking for the books this order touched
	bookIDs := make([]uuid.UUID, 0, len(o.Items))
	for _, it := range o.Items {
		bookIDs = append(bookIDs, it.BookID)
	}
	low, err := s.repo.LowStockBooks(ctx, bookIDs)
	if err != nil {
		logger.Error("low stock lookup failed", err)
	}
	for _, b := range low {
		logger.Warn("book is low on stock", map[string]interface{}{
			"book_id":   b.ID,
			"title":     b.Title,
			"stock":     b.StockQuantity,
			"threshold": b.LowStockThreshold,
			"order":     o.OrderNumber,
		})
	}

	if s.notifier == nil {
		return nil
	}
	return s.notifier.OrderPlaced(ctx, o)
}

func (s *orderService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, shared.DashboardCacheKeys); err != nil {
		logger.Warn("dashboard cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
