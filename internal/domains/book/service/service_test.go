package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"buxta-backend/internal/domains/book/model"
	categorymodel "buxta-backend/internal/domains/category/model"
	"buxta-backend/internal/shared"
	"buxta-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	books   *fakeBookRepo
	images  *fakeImageRepo
	storage *fakeStorage
	queue   *fakeQueue
	cache   *cache.MemoryCache
	cats    *fakeCategories
}

func newFixture() *fixture {
	return &fixture{
		books:   newFakeBookRepo(),
		images:  newFakeImageRepo(),
		storage: newFakeStorage(),
		queue:   &fakeQueue{},
		cache:   cache.NewMemoryCache(),
		cats:    &fakeCategories{},
	}
}

func (f *fixture) admin() AdminService {
	return NewAdminService(f.books, f.images, f.queue, f.cache)
}

func (f *fixture) storefront() StorefrontService {
	return NewStorefrontService(f.books, f.images, f.cats, f.cache)
}

func (f *fixture) imageSvc() ImageService {
	return NewImageService(f.books, f.images, f.storage, fakeProcessor{}, f.queue, f.cache)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func bookInput(title string) model.BookInput {
	return model.BookInput{
		Title:       title,
		Description: "Description of " + title,
		AuthorIDs:   []uuid.UUID{uuid.New()},
		CategoryIDs: []uuid.UUID{uuid.New()},
		Price:       price("1200"),
	}
}

func TestAdminCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := bookInput("Petals of Blood")
	in.ISBN13 = "978-0-14-303917-5"
	book, err := f.admin().Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "petals-of-blood", book.Slug)
	assert.True(t, book.IsActive)
	assert.Equal(t, model.DefaultLowStockThreshold, book.LowStockThreshold)
	require.NotNil(t, book.ISBN13)
	assert.Equal(t, "9780143039175", *book.ISBN13)
	assert.Len(t, book.Authors, 1)

	_, err = f.admin().Create(ctx, bookInput("PETALS OF BLOOD"))
	assert.ErrorIs(t, err, model.ErrTitleExists)

	dup := bookInput("Another Book")
	dup.ISBN13 = "9780143039175"
	_, err = f.admin().Create(ctx, dup)
	assert.ErrorIs(t, err, model.ErrISBN13Exists)
}

func TestAdminCreate_ValidationUsesSharedRules(t *testing.T) {
	f := newFixture()
	in := bookInput("No Price")
	in.Price = nil

	_, err := f.admin().Create(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Valid price is required")

	b, err := f.admin().Create(context.Background(), bookInput("Has Price"))
	require.NoError(t, err)
	_, err = f.admin().Update(context.Background(), b.ID, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Valid price is required")
}

func TestAdminUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := f.admin()

	a, err := svc.Create(ctx, bookInput("The River Between"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, bookInput("Weep Not, Child"))
	require.NoError(t, err)

	// keeping its own title is not a conflict
	same := bookInput("The River Between")
	same.StockQuantity = 3
	updated, err := svc.Update(ctx, a.ID, same)
	require.NoError(t, err)
	assert.Equal(t, "the-river-between", updated.Slug)
	assert.Equal(t, 3, updated.StockQuantity)

	_, err = svc.Update(ctx, a.ID, bookInput("weep not, child"))
	assert.ErrorIs(t, err, model.ErrTitleExists)

	renamed, err := svc.Update(ctx, a.ID, bookInput("The River Between (2nd ed)"))
	require.NoError(t, err)
	assert.Equal(t, "the-river-between-2nd-ed", renamed.Slug)

	_, err = svc.Update(ctx, uuid.New(), bookInput("Ghost"))
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestAdminCreate_SlugDeduplicated(t *testing.T) {
	f := newFixture()
	f.books.add(model.Book{Title: "Old Title", Slug: "homecoming"})

	b, err := f.admin().Create(context.Background(), bookInput("Homecoming"))
	require.NoError(t, err)
	assert.Equal(t, "homecoming-1", b.Slug)
}

func TestAdminDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.books.add(model.Book{Title: "Ordered"})
	f.books.ordered[b.ID] = true

	err := f.admin().Delete(ctx, b.ID)
	assert.ErrorIs(t, err, model.ErrBookHasOrders)
	assert.Empty(t, f.queue.tasks)

	free := f.books.add(model.Book{Title: "Free"})
	require.NoError(t, f.admin().Delete(ctx, free.ID))
	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, shared.TypeDeleteStorageObjects, f.queue.tasks[0].taskType)
	assert.Equal(t, shared.DeleteStorageObjectsPayload{Prefix: "books/" + free.ID.String() + "/"}, f.queue.tasks[0].payload)
}

func TestAdminList_Stats(t *testing.T) {
	f := newFixture()
	f.books.add(model.Book{Title: "A", IsActive: true, StockQuantity: 10, LowStockThreshold: 5})
	f.books.add(model.Book{Title: "B", IsActive: true, StockQuantity: 2, LowStockThreshold: 5})
	f.books.add(model.Book{Title: "C", StockQuantity: 0, LowStockThreshold: 5})

	books, total, stats, err := f.admin().List(context.Background(), model.AdminListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, books, 3)
	assert.Equal(t, 3, total)
	assert.Equal(t, model.AdminStats{ActiveBooks: 2, LowStock: 1, OutOfStock: 1}, *stats)
}

func TestAdminExport(t *testing.T) {
	f := newFixture()
	f.books.add(model.Book{Title: "Devil on the Cross", Slug: "devil-on-the-cross", Price: decimal.RequireFromString("850"), CreatedAt: time.Now()})

	var buf bytes.Buffer
	require.NoError(t, f.admin().Export(context.Background(), &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[0][0])
	assert.Equal(t, "Devil on the Cross", rows[1][0])
	assert.Equal(t, "850", rows[1][7])
}

func TestHome_Cached(t *testing.T) {
	f := newFixture()
	f.books.add(model.Book{Title: "Featured", IsActive: true, IsFeatured: true, CreatedAt: time.Now()})
	f.books.add(model.Book{Title: "Plain", IsActive: true, CreatedAt: time.Now()})
	f.books.add(model.Book{Title: "Hidden", IsFeatured: true, CreatedAt: time.Now()})
	svc := f.storefront()
	ctx := context.Background()

	page, err := svc.Home(ctx)
	require.NoError(t, err)
	require.Len(t, page.FeaturedBooks, 1)
	assert.Equal(t, "Featured", page.FeaturedBooks[0].Title)

	_, err = svc.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.books.featured)

	// a catalog write drops the cached page
	_, err = f.admin().Create(ctx, bookInput("New Arrival"))
	require.NoError(t, err)
	_, err = svc.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.books.featured)
}

func TestHome_LimitsToEight(t *testing.T) {
	f := newFixture()
	for i := 0; i < 10; i++ {
		f.books.add(model.Book{Title: uuid.NewString(), IsActive: true, IsFeatured: true, CreatedAt: time.Now().Add(time.Duration(i) * time.Minute)})
	}
	page, err := f.storefront().Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.FeaturedBooks, FeaturedLimit)
}

func TestShop(t *testing.T) {
	f := newFixture()
	fiction := categorymodel.Category{ID: uuid.New(), Name: "Fiction", Slug: "fiction", IsActive: true}
	f.cats.items = []categorymodel.Category{fiction}
	f.books.add(model.Book{Title: "Half of a Yellow Sun", IsActive: true,
		Categories: []categorymodel.CategorySummary{{ID: fiction.ID}}})
	f.books.add(model.Book{Title: "Purple Hibiscus", IsActive: true})
	f.books.add(model.Book{Title: "Yellow Inactive", IsActive: false})
	svc := f.storefront()
	ctx := context.Background()

	page, err := svc.Shop(ctx, "", "YELLOW", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Half of a Yellow Sun", page.Books[0].Title)
	assert.Len(t, page.Categories, 1)

	page, err = svc.Shop(ctx, "fiction", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.NotNil(t, page.CurrentCategory)

	_, err = svc.Shop(ctx, "poetry", "", 1, 20)
	assert.ErrorIs(t, err, categorymodel.ErrCategoryNotFound)
}

func TestBookDetail(t *testing.T) {
	f := newFixture()
	cat := categorymodel.CategorySummary{ID: uuid.New()}
	book := f.books.add(model.Book{Title: "Americanah", Slug: "americanah", IsActive: true,
		Categories: []categorymodel.CategorySummary{cat}})
	for i := 0; i < 5; i++ {
		f.books.add(model.Book{Title: uuid.NewString(), IsActive: true, Categories: []categorymodel.CategorySummary{cat}})
	}
	f.books.add(model.Book{Title: "Unrelated", IsActive: true})
	f.books.reviews[book.ID] = []model.BookReview{{Rating: 5, Title: "Loved it"}}
	f.books.add(model.Book{Title: "Draft", Slug: "draft"})

	detail, err := f.storefront().BookDetail(context.Background(), "americanah")
	require.NoError(t, err)
	assert.Equal(t, "Americanah", detail.Title)
	assert.Len(t, detail.Related, RelatedLimit)
	for _, r := range detail.Related {
		assert.NotEqual(t, book.ID, r.ID)
	}
	assert.Len(t, detail.Reviews, 1)

	_, err = f.storefront().BookDetail(context.Background(), "draft")
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}
