package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	authormodel "buxta-backend/internal/domains/author/model"
	"buxta-backend/internal/domains/book/model"
	categorymodel "buxta-backend/internal/domains/category/model"
	"buxta-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type fakeBookRepo struct {
	books    map[uuid.UUID]*model.Book
	ordered  map[uuid.UUID]bool
	reviews  map[uuid.UUID][]model.BookReview
	featured int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:   map[uuid.UUID]*model.Book{},
		ordered: map[uuid.UUID]bool{},
		reviews: map[uuid.UUID][]model.BookReview{},
	}
}

func (f *fakeBookRepo) add(b model.Book) *model.Book {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.Derive()
	f.books[b.ID] = &b
	return &b
}

func (f *fakeBookRepo) all(keep func(*model.Book) bool) []model.Book {
	out := make([]model.Book, 0)
	for _, b := range f.books {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeBookRepo) ListFeatured(_ context.Context, limit int) ([]model.Book, error) {
	f.featured++
	out := f.all(func(b *model.Book) bool { return b.IsActive && b.IsFeatured })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBookRepo) ListActive(_ context.Context, filter model.ShopFilter) ([]model.Book, int, error) {
	out := f.all(func(b *model.Book) bool {
		if !b.IsActive {
			return false
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(filter.Search)) {
			return false
		}
		if filter.CategoryID != nil {
			for _, c := range b.Categories {
				if c.ID == *filter.CategoryID {
					return true
				}
			}
			return false
		}
		return true
	})
	return out, len(out), nil
}

func (f *fakeBookRepo) GetActiveBySlug(_ context.Context, slug string) (*model.Book, error) {
	for _, b := range f.books {
		if b.Slug == slug && b.IsActive {
			cp := *b
			return &cp, nil
		}
	}
	return nil, model.ErrBookNotFound
}

func (f *fakeBookRepo) ListRelated(_ context.Context, book *model.Book, limit int) ([]model.Book, error) {
	shares := func(b *model.Book) bool {
		for _, c := range b.Categories {
			for _, own := range book.Categories {
				if c.ID == own.ID {
					return true
				}
			}
		}
		return false
	}
	out := f.all(func(b *model.Book) bool { return b.IsActive && b.ID != book.ID && shares(b) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBookRepo) ListApprovedReviews(_ context.Context, bookID uuid.UUID) ([]model.BookReview, error) {
	return append([]model.BookReview{}, f.reviews[bookID]...), nil
}

func (f *fakeBookRepo) AdminList(_ context.Context, _ model.AdminListFilter) ([]model.Book, int, error) {
	out := f.all(func(*model.Book) bool { return true })
	return out, len(out), nil
}

func (f *fakeBookRepo) AdminStats(context.Context) (*model.AdminStats, error) {
	var s model.AdminStats
	for _, b := range f.books {
		if b.IsActive {
			s.ActiveBooks++
		}
		if b.StockQuantity == 0 {
			s.OutOfStock++
		} else if b.StockQuantity <= b.LowStockThreshold {
			s.LowStock++
		}
	}
	return &s, nil
}

func (f *fakeBookRepo) ListForExport(context.Context) ([]model.Book, error) {
	return f.all(func(*model.Book) bool { return true }), nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	if b, ok := f.books[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, model.ErrBookNotFound
}

func (f *fakeBookRepo) SlugExists(_ context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	for _, b := range f.books {
		if b.Slug == slug && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookRepo) TitleExists(_ context.Context, title string, excludeID uuid.UUID) (bool, error) {
	for _, b := range f.books {
		if strings.EqualFold(b.Title, title) && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookRepo) ISBN13Exists(_ context.Context, isbn string, excludeID uuid.UUID) (bool, error) {
	for _, b := range f.books {
		if b.ISBN13 != nil && *b.ISBN13 == isbn && b.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookRepo) save(b *model.Book, authorIDs, categoryIDs []uuid.UUID) {
	cp := *b
	cp.Authors = cp.Authors[:0:0]
	for _, id := range authorIDs {
		cp.Authors = append(cp.Authors, authorSummary(id))
	}
	cp.Categories = cp.Categories[:0:0]
	for _, id := range categoryIDs {
		cp.Categories = append(cp.Categories, categorymodel.CategorySummary{ID: id})
	}
	cp.Derive()
	f.books[b.ID] = &cp
}

func (f *fakeBookRepo) Create(_ context.Context, b *model.Book, authorIDs, categoryIDs []uuid.UUID) error {
	f.save(b, authorIDs, categoryIDs)
	return nil
}

func (f *fakeBookRepo) Update(_ context.Context, b *model.Book, authorIDs, categoryIDs []uuid.UUID) error {
	if _, ok := f.books[b.ID]; !ok {
		return model.ErrBookNotFound
	}
	f.save(b, authorIDs, categoryIDs)
	return nil
}

func (f *fakeBookRepo) ToggleActive(_ context.Context, id uuid.UUID) (bool, error) {
	b, ok := f.books[id]
	if !ok {
		return false, model.ErrBookNotFound
	}
	b.IsActive = !b.IsActive
	return b.IsActive, nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.books[id]; !ok {
		return model.ErrBookNotFound
	}
	if f.ordered[id] {
		return model.ErrBookHasOrders
	}
	delete(f.books, id)
	return nil
}

// fakeImageRepo keeps the same primary rules as the SQL implementation
type fakeImageRepo struct {
	images map[uuid.UUID][]model.BookImage
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: map[uuid.UUID][]model.BookImage{}}
}

func (f *fakeImageRepo) ListByBook(_ context.Context, bookID uuid.UUID) ([]model.BookImage, error) {
	out := append([]model.BookImage{}, f.images[bookID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

func (f *fakeImageRepo) GetByID(_ context.Context, bookID, imageID uuid.UUID) (*model.BookImage, error) {
	for _, img := range f.images[bookID] {
		if img.ID == imageID {
			cp := img
			return &cp, nil
		}
	}
	return nil, model.ErrImageNotFound
}

func (f *fakeImageRepo) Add(_ context.Context, bookID uuid.UUID, images []model.BookImage, coverIndex int) ([]model.BookImage, error) {
	existing := f.images[bookID]
	hasPrimary := false
	for _, img := range existing {
		hasPrimary = hasPrimary || img.IsPrimary
	}
	primary := coverIndex
	if primary < 0 && !hasPrimary {
		primary = 0
	}
	if primary >= 0 {
		for i := range existing {
			existing[i].IsPrimary = false
		}
	}
	for i := range images {
		images[i].BookID = bookID
		images[i].IsPrimary = i == primary
		images[i].SortOrder = len(existing) + i
	}
	f.images[bookID] = append(existing, images...)
	return images, nil
}

func (f *fakeImageRepo) SetPrimary(ctx context.Context, bookID, imageID uuid.UUID) error {
	if _, err := f.GetByID(ctx, bookID, imageID); err != nil {
		return err
	}
	for i := range f.images[bookID] {
		f.images[bookID][i].IsPrimary = f.images[bookID][i].ID == imageID
	}
	return nil
}

func (f *fakeImageRepo) Delete(ctx context.Context, bookID, imageID uuid.UUID) (*model.BookImage, error) {
	img, err := f.GetByID(ctx, bookID, imageID)
	if err != nil {
		return nil, err
	}
	list := f.images[bookID]
	if img.IsPrimary && len(list) == 1 {
		return nil, model.ErrOnlyImage
	}
	kept := list[:0]
	for _, other := range list {
		if other.ID != imageID {
			kept = append(kept, other)
		}
	}
	if img.IsPrimary {
		kept[0].IsPrimary = true
	}
	f.images[bookID] = kept
	return img, nil
}

func (f *fakeImageRepo) UpdateVariants(_ context.Context, imageID uuid.UUID, thumbnail, medium, large string) error {
	for bookID, list := range f.images {
		for i := range list {
			if list[i].ID == imageID {
				f.images[bookID][i].ThumbnailURL = thumbnail
				f.images[bookID][i].MediumURL = medium
				f.images[bookID][i].LargeURL = large
				return nil
			}
		}
	}
	return model.ErrImageNotFound
}

type fakeStorage struct {
	objects map[string][]byte
	failOn  string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.failOn != "" && strings.HasSuffix(key, f.failOn) {
		return "", errors.New("storage unavailable")
	}
	f.objects[key] = data
	return "http://minio.local/buxta/" + key, nil
}

func (f *fakeStorage) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) DeleteByPrefix(_ context.Context, prefix string) error {
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			delete(f.objects, key)
		}
	}
	return nil
}

// fakeProcessor treats the payload prefix as the format
type fakeProcessor struct{}

func (fakeProcessor) ValidateImage(data []byte) (string, error) {
	switch {
	case strings.HasPrefix(string(data), "png"):
		return "png", nil
	case strings.HasPrefix(string(data), "jpeg"):
		return "jpeg", nil
	case strings.HasPrefix(string(data), "huge"):
		return "", storageTooLarge
	}
	return "", storageNotImage
}

func (fakeProcessor) ProcessImage([]byte) (map[string][]byte, error) {
	return map[string][]byte{"thumbnail": []byte("t"), "medium": []byte("m"), "large": []byte("l")}, nil
}

type enqueued struct {
	taskType string
	payload  interface{}
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []enqueued
}

func (q *fakeQueue) Enqueue(_ context.Context, taskType string, payload interface{}, _ ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, enqueued{taskType: taskType, payload: payload})
	return nil
}

type fakeCategories struct {
	items []categorymodel.Category
}

func (f *fakeCategories) GetActiveBySlug(_ context.Context, slug string) (*categorymodel.Category, error) {
	for _, c := range f.items {
		if c.Slug == slug && c.IsActive {
			cp := c
			return &cp, nil
		}
	}
	return nil, categorymodel.ErrCategoryNotFound
}

func (f *fakeCategories) ActiveRoots(context.Context) ([]categorymodel.Category, error) {
	return f.items, nil
}

var (
	storageTooLarge = storage.ErrImageTooLarge
	storageNotImage = storage.ErrNotAnImage
)

func authorSummary(id uuid.UUID) authormodel.AuthorSummary {
	return authormodel.AuthorSummary{ID: id, FullName: "Author " + id.String()[:4]}
}
