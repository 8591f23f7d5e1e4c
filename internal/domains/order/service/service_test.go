package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	customermodel "buxta-backend/internal/domains/customer/model"
	"buxta-backend/internal/domains/order/model"
	"buxta-backend/internal/shared"
	"buxta-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBook struct {
	title string
	stock int
}

// fakeRepo mimics the transactional placement: nothing changes unless every line fits
type fakeRepo struct {
	books     map[uuid.UUID]*fakeBook
	carts     map[uuid.UUID][]model.CartLine
	orders    map[uuid.UUID]*model.Order
	numbers   map[string]bool
	lowStock  []model.LowStockBook
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		books:   map[uuid.UUID]*fakeBook{},
		carts:   map[uuid.UUID][]model.CartLine{},
		orders:  map[uuid.UUID]*model.Order{},
		numbers: map[string]bool{},
	}
}

func (f *fakeRepo) addLine(cartID uuid.UUID, title string, price int64, qty, stock int) uuid.UUID {
	bookID := uuid.New()
	f.books[bookID] = &fakeBook{title: title, stock: stock}
	f.carts[cartID] = append(f.carts[cartID], model.CartLine{
		ItemID: uuid.New(), BookID: bookID, BookTitle: title,
		Quantity: qty, Price: decimal.NewFromInt(price), StockQuantity: stock,
	})
	return bookID
}

func (f *fakeRepo) ListCartLines(_ context.Context, cartID uuid.UUID) ([]model.CartLine, error) {
	lines := make([]model.CartLine, 0, len(f.carts[cartID]))
	for _, l := range f.carts[cartID] {
		l.StockQuantity = f.books[l.BookID].stock
		lines = append(lines, l)
	}
	return lines, nil
}

func (f *fakeRepo) PlaceOrder(_ context.Context, cartID uuid.UUID, o *model.Order, nextNumber func() string) error {
	lines := f.carts[cartID]
	if len(lines) == 0 {
		return model.ErrCartEmpty
	}
	for _, l := range lines {
		if b := f.books[l.BookID]; b.stock < l.Quantity {
			return model.InsufficientStock(b.stock, b.title)
		}
	}

	number := ""
	for attempt := 0; attempt < model.MaxOrderNumberAttempts; attempt++ {
		if n := nextNumber(); !f.numbers[n] {
			number = n
			break
		}
	}
	if number == "" {
		return model.ErrOrderNumberExhaust
	}

	o.Subtotal = decimal.Zero
	for _, l := range lines {
		f.books[l.BookID].stock -= l.Quantity
		o.Items = append(o.Items, model.OrderItem{
			ID: uuid.New(), OrderID: o.ID, BookID: l.BookID, BookTitle: l.BookTitle,
			Quantity: l.Quantity, Price: l.Price, Total: l.Total(),
		})
		o.Subtotal = o.Subtotal.Add(l.Total())
	}
	o.TotalAmount = o.Subtotal
	o.OrderNumber = number
	o.Version = 1
	o.History = []model.StatusHistory{{Status: o.Status, Notes: model.PlacedNote}}
	f.numbers[number] = true
	cp := *o
	f.orders[o.ID] = &cp
	delete(f.carts, cartID)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	cp := *o
	cp.Derive()
	return &cp, nil
}

func (f *fakeRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Order, error) {
	out := make([]model.Order, 0)
	for _, o := range f.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepo) AdminList(_ context.Context, filter model.AdminListFilter) ([]model.Order, int, error) {
	out := make([]model.Order, 0)
	for _, o := range f.orders {
		if filter.Status == "" || o.Status == filter.Status {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status, notes string, staffID *uuid.UUID, version int, at time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	o, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	if o.Version != version {
		return model.ErrVersionMismatch
	}
	o.Status = status
	o.Version++
	if status == model.StatusShipped && o.ShippedAt == nil {
		o.ShippedAt = &at
	}
	if status == model.StatusDelivered && o.DeliveredAt == nil {
		o.DeliveredAt = &at
	}
	o.History = append([]model.StatusHistory{{Status: status, Notes: notes, CreatedBy: staffID}}, o.History...)
	return nil
}

func (f *fakeRepo) LowStockBooks(_ context.Context, ids []uuid.UUID) ([]model.LowStockBook, error) {
	return f.lowStock, nil
}

type fakeCustomers struct {
	customerID uuid.UUID
	addresses  []customermodel.Address
}

func (f *fakeCustomers) GetOrCreateByUser(_ context.Context, userID uuid.UUID) (*customermodel.Customer, error) {
	return &customermodel.Customer{ID: f.customerID, UserID: userID}, nil
}

func (f *fakeCustomers) ListAddresses(context.Context, uuid.UUID) ([]customermodel.Address, error) {
	return f.addresses, nil
}

type enqueued struct {
	taskType string
	payload  interface{}
}

type fakeQueue struct {
	tasks []enqueued
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, taskType string, payload interface{}, _ ...asynq.Option) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, enqueued{taskType: taskType, payload: payload})
	return nil
}

type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) OrderPlaced(_ context.Context, o *model.Order) error {
	n.sent = append(n.sent, o.OrderNumber)
	return nil
}

type testEnv struct {
	svc       *orderService
	repo      *fakeRepo
	queue     *fakeQueue
	cache     cache.Cache
	notifier  *fakeNotifier
	customers *fakeCustomers
}

func newEnv() *testEnv {
	env := &testEnv{
		repo:      newFakeRepo(),
		queue:     &fakeQueue{},
		cache:     cache.NewMemoryCache(),
		notifier:  &fakeNotifier{},
		customers: &fakeCustomers{customerID: uuid.New()},
	}
	env.svc = NewOrderService(env.repo, env.customers, env.queue, env.cache, env.notifier, Settings{
		WhatsAppNumber: "254712345678",
		Currency:       "KSh",
	}).(*orderService)
	env.svc.now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }
	return env
}

func checkoutForm() model.PlaceOrderInput {
	return model.PlaceOrderInput{
		BillingFirstName:    "Amina",
		BillingLastName:     "Otieno",
		BillingPhone:        "0712000000",
		BillingAddressLine1: "12 Moi Avenue",
		BillingCity:         "Nairobi",
		BillingState:        "Nairobi",
		BillingPostalCode:   "00100",
	}
}

func TestPlaceOrder(t *testing.T) {
	env := newEnv()
	ctx := context.Background()
	cart := uuid.New()
	a := env.repo.addLine(cart, "River Between", 500, 2, 5)
	b := env.repo.addLine(cart, "Petals of Blood", 1200, 1, 1)

	user := uuid.New()
	res, err := env.svc.PlaceOrder(ctx, cart, &user, checkoutForm())
	require.NoError(t, err)

	assert.Regexp(t, `^BX[0-9]{8}$`, res.OrderNumber)
	assert.True(t, decimal.NewFromInt(2200).Equal(res.TotalAmount))

	order := env.repo.orders[res.OrderID]
	require.NotNil(t, order)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, env.customers.customerID, *order.CustomerID)
	assert.Equal(t, "Amina", order.Shipping.FirstName, "billing is copied into shipping")
	assert.True(t, order.TaxAmount.IsZero())
	require.Len(t, order.History, 1)
	assert.Equal(t, model.PlacedNote, order.History[0].Notes)

	assert.Equal(t, 3, env.repo.books[a].stock)
	assert.Equal(t, 0, env.repo.books[b].stock)
	assert.Empty(t, env.repo.carts[cart], "cart is emptied")

	require.Len(t, env.queue.tasks, 1)
	assert.Equal(t, shared.TypeOrderPlaced, env.queue.tasks[0].taskType)
	assert.Equal(t, res.OrderNumber, env.queue.tasks[0].payload.(shared.OrderPlacedPayload).OrderNumber)

	require.True(t, strings.HasPrefix(res.RedirectURL, "https://wa.me/254712345678?text="))
	u, err := url.Parse(res.RedirectURL)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "*Order #:* "+res.OrderNumber)
	assert.Contains(t, text, "*Total:* KSh 2200.00")
	assert.Contains(t, text, "• River Between x 2 - KSh 1000.00")
	assert.Contains(t, text, "• Petals of Blood x 1 - KSh 1200.00")
}

func TestPlaceOrderAnonymous(t *testing.T) {
	env := newEnv()
	cart := uuid.New()
	env.repo.addLine(cart, "River Between", 500, 1, 5)

	res, err := env.svc.PlaceOrder(context.Background(), cart, nil, checkoutForm())
	require.NoError(t, err)
	assert.Nil(t, env.repo.orders[res.OrderID].CustomerID)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	env := newEnv()
	cart := uuid.New()
	a := env.repo.addLine(cart, "River Between", 500, 2, 5)
	env.repo.addLine(cart, "Petals of Blood", 1200, 3, 1)

	_, err := env.svc.PlaceOrder(context.Background(), cart, nil, checkoutForm())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Sorry, only 1 copies of 'Petals of Blood' are available")

	assert.Equal(t, 5, env.repo.books[a].stock, "no stock taken")
	assert.Len(t, env.repo.carts[cart], 2, "cart kept")
	assert.Empty(t, env.repo.orders)
	assert.Empty(t, env.queue.tasks)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := newEnv()
	_, err := env.svc.PlaceOrder(context.Background(), uuid.New(), nil, checkoutForm())
	assert.True(t, errors.Is(err, model.ErrCartEmpty))
}

func TestPlaceOrderValidation(t *testing.T) {
	env := newEnv()
	cart := uuid.New()
	env.repo.addLine(cart, "River Between", 500, 1, 5)

	form := checkoutForm()
	form.BillingFirstName = ""
	_, err := env.svc.PlaceOrder(context.Background(), cart, nil, form)
	require.Error(t, err)
	assert.Len(t, env.repo.carts[cart], 1)
}

func TestPlaceOrderRetriesOrderNumber(t *testing.T) {
	env := newEnv()
	cart := uuid.New()
	env.repo.addLine(cart, "River Between", 500, 1, 5)
	env.repo.numbers["BX00000001"] = true

	numbers := []string{"BX00000001", "BX00000001", "BX00000002"}
	env.svc.newNumber = func() string {
		n := numbers[0]
		numbers = numbers[1:]
		return n
	}

	res, err := env.svc.PlaceOrder(context.Background(), cart, nil, checkoutForm())
	require.NoError(t, err)
	assert.Equal(t, "BX00000002", res.OrderNumber)
}

func TestPlaceOrderSurvivesQueueFailure(t *testing.T) {
	env := newEnv()
	env.queue.err = errors.New("redis down")
	cart := uuid.New()
	env.repo.addLine(cart, "River Between", 500, 1, 5)

	res, err := env.svc.PlaceOrder(context.Background(), cart, nil, checkoutForm())
	require.NoError(t, err)
	assert.NotEmpty(t, res.RedirectURL)
}

func TestCheckout(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	_, err := env.svc.Checkout(ctx, uuid.New(), nil)
	assert.True(t, errors.Is(err, model.ErrCartEmpty))

	cart := uuid.New()
	env.repo.addLine(cart, "River Between", 500, 2, 5)
	env.customers.addresses = []customermodel.Address{{City: "Nairobi", IsDefault: true}, {City: "Kisumu"}}

	user := uuid.New()
	summary, err := env.svc.Checkout(ctx, cart, &user)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalItems)
	assert.True(t, decimal.NewFromInt(1000).Equal(summary.Subtotal))
	require.Len(t, summary.Addresses, 1)
	assert.Equal(t, "Nairobi", summary.Addresses[0].City)

	env.repo.addLine(cart, "Petals of Blood", 1200, 4, 2)
	_, err = env.svc.Checkout(ctx, cart, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sorry, only 2 copies of 'Petals of Blood' are available")
}

func placed(t *testing.T, env *testEnv) *model.Order {
	t.Helper()
	cart := uuid.New()
	env.repo.addLine(cart, "River Between", 500, 1, 5)
	res, err := env.svc.PlaceOrder(context.Background(), cart, nil, checkoutForm())
	require.NoError(t, err)
	return env.repo.orders[res.OrderID]
}

func TestUpdateStatus(t *testing.T) {
	env := newEnv()
	ctx := context.Background()
	order := placed(t, env)
	staff := uuid.New()

	require.NoError(t, env.cache.Set(ctx, shared.DashboardStatsCacheKey, "stale", time.Minute))

	v := 1
	updated, err := env.svc.UpdateStatus(ctx, order.ID, staff, model.StatusUpdateInput{Status: "shipped", Notes: "DHL", Version: &v})
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)
	assert.Equal(t, 2, updated.Version)
	require.NotNil(t, updated.ShippedAt)
	assert.Equal(t, "DHL", updated.History[0].Notes)
	assert.Equal(t, staff, *updated.History[0].CreatedBy)

	var cached string
	found, err := env.cache.Get(ctx, shared.DashboardStatsCacheKey, &cached)
	require.NoError(t, err)
	assert.False(t, found, "dashboard cache dropped")

	// any status may follow any other
	v = 2
	updated, err = env.svc.UpdateStatus(ctx, order.ID, staff, model.StatusUpdateInput{Status: "pending", Version: &v})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, updated.Status)

	stale := 1
	_, err = env.svc.UpdateStatus(ctx, order.ID, staff, model.StatusUpdateInput{Status: "delivered", Version: &stale})
	assert.True(t, errors.Is(err, model.ErrVersionMismatch))

	_, err = env.svc.UpdateStatus(ctx, order.ID, staff, model.StatusUpdateInput{Status: "lost", Version: &v})
	assert.Error(t, err)
}

func TestNotifyPlaced(t *testing.T) {
	env := newEnv()
	ctx := context.Background()
	order := placed(t, env)
	env.repo.lowStock = []model.LowStockBook{{ID: order.Items[0].BookID, Title: "River Between", StockQuantity: 4, LowStockThreshold: 5}}

	require.NoError(t, env.cache.Set(ctx, "dashboard:sales:7", []int{1}, time.Minute))
	require.NoError(t, env.svc.NotifyPlaced(ctx, order.ID))
	assert.Equal(t, []string{order.OrderNumber}, env.notifier.sent)

	var cached []int
	found, _ := env.cache.Get(ctx, "dashboard:sales:7", &cached)
	assert.False(t, found)

	err := env.svc.NotifyPlaced(ctx, uuid.New())
	assert.True(t, errors.Is(err, model.ErrOrderNotFound))
}

func TestListForUser(t *testing.T) {
	env := newEnv()
	cart := uuid.New()
	env.repo.addLine(cart, "River Between", 500, 1, 5)
	user := uuid.New()
	_, err := env.svc.PlaceOrder(context.Background(), cart, &user, checkoutForm())
	require.NoError(t, err)
	placed(t, env) // anonymous order

	orders, err := env.svc.ListForUser(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
