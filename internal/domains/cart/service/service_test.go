package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"buxta-backend/internal/domains/cart/model"
	customermodel "buxta-backend/internal/domains/customer/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	customerCarts map[uuid.UUID]uuid.UUID
	sessionCarts  map[string]uuid.UUID
	books         map[uuid.UUID]*model.BookStock
	items         map[uuid.UUID]*model.CartItem
	touched       map[uuid.UUID]time.Time
	deleteBefore  time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customerCarts: map[uuid.UUID]uuid.UUID{},
		sessionCarts:  map[string]uuid.UUID{},
		books:         map[uuid.UUID]*model.BookStock{},
		items:         map[uuid.UUID]*model.CartItem{},
		touched:       map[uuid.UUID]time.Time{},
	}
}

func (f *fakeRepo) addBook(title string, price int64, stock int, active bool) uuid.UUID {
	id := uuid.New()
	f.books[id] = &model.BookStock{ID: id, Title: title, Price: decimal.NewFromInt(price), StockQuantity: stock, IsActive: active}
	return id
}

func (f *fakeRepo) GetOrCreateByCustomer(_ context.Context, customerID uuid.UUID) (uuid.UUID, error) {
	if id, ok := f.customerCarts[customerID]; ok {
		return id, nil
	}
	id := uuid.New()
	f.customerCarts[customerID] = id
	return id, nil
}

func (f *fakeRepo) GetOrCreateBySession(_ context.Context, key string) (uuid.UUID, error) {
	if id, ok := f.sessionCarts[key]; ok {
		return id, nil
	}
	id := uuid.New()
	f.sessionCarts[key] = id
	return id, nil
}

func (f *fakeRepo) GetBookStock(_ context.Context, bookID uuid.UUID) (*model.BookStock, error) {
	b, ok := f.books[bookID]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) ListItems(_ context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	out := make([]model.CartItem, 0)
	for _, it := range f.items {
		if it.CartID == cartID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetItem(_ context.Context, cartID, itemID uuid.UUID) (*model.CartItem, error) {
	it, ok := f.items[itemID]
	if !ok || it.CartID != cartID {
		return nil, model.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeRepo) AddItem(_ context.Context, cartID, bookID uuid.UUID, quantity int) (bool, error) {
	b := f.books[bookID]
	for _, it := range f.items {
		if it.CartID == cartID && it.BookID == bookID {
			if it.Quantity+quantity > b.StockQuantity {
				return false, nil
			}
			it.Quantity += quantity
			return true, nil
		}
	}
	if !b.IsActive || b.StockQuantity < quantity {
		return false, nil
	}
	id := uuid.New()
	f.items[id] = &model.CartItem{ID: id, CartID: cartID, BookID: bookID, BookTitle: b.Title, Quantity: quantity, Price: b.Price, StockQuantity: b.StockQuantity}
	return true, nil
}

func (f *fakeRepo) SetItemQuantity(_ context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error) {
	it := f.items[itemID]
	if f.books[it.BookID].StockQuantity < quantity {
		return false, nil
	}
	it.Quantity = quantity
	return true, nil
}

func (f *fakeRepo) DeleteItem(_ context.Context, cartID, itemID uuid.UUID) error {
	it, ok := f.items[itemID]
	if !ok || it.CartID != cartID {
		return model.ErrItemNotFound
	}
	delete(f.items, itemID)
	return nil
}

func (f *fakeRepo) DeleteAbandonedSessionCarts(_ context.Context, before time.Time) (int64, error) {
	f.deleteBefore = before
	var n int64
	for key, id := range f.sessionCarts {
		if f.touched[id].Before(before) {
			delete(f.sessionCarts, key)
			n++
		}
	}
	return n, nil
}

type fakeCustomers struct {
	byUser map[uuid.UUID]uuid.UUID
}

func (f *fakeCustomers) GetOrCreateByUser(_ context.Context, userID uuid.UUID) (*customermodel.Customer, error) {
	if f.byUser == nil {
		f.byUser = map[uuid.UUID]uuid.UUID{}
	}
	id, ok := f.byUser[userID]
	if !ok {
		id = uuid.New()
		f.byUser[userID] = id
	}
	return &customermodel.Customer{ID: id, UserID: userID}, nil
}

func newTestService() (*cartService, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewCartService(repo, &fakeCustomers{}).(*cartService)
	return svc, repo
}

func TestGetOrCreateCart(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user := uuid.New()
	first, err := svc.GetOrCreateCartByUser(ctx, user)
	require.NoError(t, err)
	again, err := svc.GetOrCreateCartByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	session, err := svc.GetOrCreateCartBySession(ctx, "abc")
	require.NoError(t, err)
	assert.NotEqual(t, first, session)
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and increments", func(t *testing.T) {
		svc, repo := newTestService()
		cart := uuid.New()
		book := repo.addBook("Dune", 500, 3, true)

		res, err := svc.AddItem(ctx, cart, book, 0)
		require.NoError(t, err)
		assert.Equal(t, "Book added to cart", res.Message)
		assert.Equal(t, 1, res.CartCount)

		res, err = svc.AddItem(ctx, cart, book, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, res.CartCount)
		assert.True(t, decimal.NewFromInt(1500).Equal(res.CartSubtotal))
	})

	t.Run("stops at stock", func(t *testing.T) {
		svc, repo := newTestService()
		cart := uuid.New()
		book := repo.addBook("Dune", 500, 1, true)

		_, err := svc.AddItem(ctx, cart, book, 1)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, cart, book, 1)
		assert.True(t, errors.Is(err, model.ErrMaxStockReached))
	})

	t.Run("out of stock", func(t *testing.T) {
		svc, repo := newTestService()
		book := repo.addBook("Dune", 500, 0, true)
		_, err := svc.AddItem(ctx, uuid.New(), book, 1)
		assert.True(t, errors.Is(err, model.ErrOutOfStock))
	})

	t.Run("inactive or missing book", func(t *testing.T) {
		svc, repo := newTestService()
		book := repo.addBook("Dune", 500, 4, false)
		_, err := svc.AddItem(ctx, uuid.New(), book, 1)
		assert.True(t, errors.Is(err, model.ErrBookNotFound))

		_, err = svc.AddItem(ctx, uuid.New(), uuid.New(), 1)
		assert.True(t, errors.Is(err, model.ErrBookNotFound))
	})

	t.Run("negative quantity", func(t *testing.T) {
		svc, repo := newTestService()
		book := repo.addBook("Dune", 500, 4, true)
		_, err := svc.AddItem(ctx, uuid.New(), book, -2)
		assert.True(t, errors.Is(err, model.ErrInvalidQuantity))
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	cart := uuid.New()
	book := repo.addBook("Dune", 500, 4, true)
	_, err := svc.AddItem(ctx, cart, book, 1)
	require.NoError(t, err)

	items, _ := repo.ListItems(ctx, cart)
	require.Len(t, items, 1)
	itemID := items[0].ID

	res, err := svc.UpdateItem(ctx, cart, itemID, 3)
	require.NoError(t, err)
	assert.Equal(t, "Cart updated", res.Message)
	require.NotNil(t, res.ItemTotal)
	assert.True(t, decimal.NewFromInt(1500).Equal(*res.ItemTotal))

	_, err = svc.UpdateItem(ctx, cart, itemID, 5)
	assert.True(t, errors.Is(err, model.ErrExceedsStock))

	_, err = svc.UpdateItem(ctx, uuid.New(), itemID, 1)
	assert.True(t, errors.Is(err, model.ErrItemNotFound), "item from another cart")

	res, err = svc.UpdateItem(ctx, cart, itemID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Item removed from cart", res.Message)
	assert.Equal(t, 0, res.CartCount)
	assert.Nil(t, res.ItemTotal)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	cart := uuid.New()
	a := repo.addBook("A", 500, 4, true)
	b := repo.addBook("B", 1200, 4, true)
	_, _ = svc.AddItem(ctx, cart, a, 2)
	_, _ = svc.AddItem(ctx, cart, b, 1)

	data, err := svc.CartData(ctx, cart)
	require.NoError(t, err)
	assert.Equal(t, 3, data.TotalItems)
	assert.True(t, decimal.NewFromInt(2200).Equal(data.Subtotal))
	assert.False(t, data.IsEmpty)

	var removeID uuid.UUID
	for _, it := range data.Items {
		if it.BookID == a {
			removeID = it.ID
		}
	}
	res, err := svc.RemoveItem(ctx, cart, removeID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CartCount)
	assert.True(t, decimal.NewFromInt(1200).Equal(res.CartSubtotal))

	_, err = svc.RemoveItem(ctx, cart, removeID)
	assert.True(t, errors.Is(err, model.ErrItemNotFound))
}

func TestCartDataEmpty(t *testing.T) {
	svc, _ := newTestService()
	data, err := svc.CartData(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, data.IsEmpty)
	assert.NotNil(t, data.Items)
	assert.True(t, data.Subtotal.IsZero())
}

func TestCleanupAbandoned(t *testing.T) {
	svc, repo := newTestService()
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	old, _ := repo.GetOrCreateBySession(context.Background(), "old")
	fresh, _ := repo.GetOrCreateBySession(context.Background(), "fresh")
	repo.touched[old] = now.AddDate(0, 0, -45)
	repo.touched[fresh] = now.AddDate(0, 0, -2)

	n, err := svc.CleanupAbandoned(context.Background(), 30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, now.AddDate(0, 0, -30), repo.deleteBefore)
	assert.Contains(t, repo.sessionCarts, "fresh")

	_, err = svc.CleanupAbandoned(context.Background(), 0)
	assert.Error(t, err)
}
