package service

import (
	"context"
	"strings"
	"testing"

	"buxta-backend/internal/domains/category/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items map[uuid.UUID]*model.Category
	used  map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]*model.Category{}, used: map[uuid.UUID]bool{}}
}

func (f *fakeRepo) List(context.Context, model.ListFilter) ([]model.Category, int, error) {
	out := make([]model.Category, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListActiveRoots(context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0)
	for _, c := range f.items {
		if c.IsActive && c.ParentID == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	if c, ok := f.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, model.ErrCategoryNotFound
}

func (f *fakeRepo) GetActiveBySlug(_ context.Context, slug string) (*model.Category, error) {
	for _, c := range f.items {
		if c.Slug == slug && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, model.ErrCategoryNotFound
}

func (f *fakeRepo) SlugExists(_ context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	for _, c := range f.items {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) save(c *model.Category) error {
	for _, existing := range f.items {
		if existing.ID != c.ID && strings.EqualFold(existing.Name, c.Name) {
			return model.ErrCategoryNameExists
		}
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeRepo) Create(_ context.Context, c *model.Category) error { return f.save(c) }
func (f *fakeRepo) Update(_ context.Context, c *model.Category) error { return f.save(c) }

func (f *fakeRepo) ToggleActive(_ context.Context, id uuid.UUID) (bool, error) {
	c, ok := f.items[id]
	if !ok {
		return false, model.ErrCategoryNotFound
	}
	c.IsActive = !c.IsActive
	return c.IsActive, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.used[id] {
		return model.ErrCategoryHasBooks
	}
	delete(f.items, id)
	return nil
}

func TestCreateCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCategoryService(repo)
	ctx := context.Background()

	fiction, err := svc.Create(ctx, model.CategoryInput{Name: "  African Fiction "})
	require.NoError(t, err)
	assert.Equal(t, "African Fiction", fiction.Name)
	assert.Equal(t, "african-fiction", fiction.Slug)
	assert.True(t, fiction.IsActive)

	_, err = svc.Create(ctx, model.CategoryInput{Name: "african fiction"})
	assert.ErrorIs(t, err, model.ErrCategoryNameExists)

	_, err = svc.Create(ctx, model.CategoryInput{Name: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Category name is required")
}

func TestUpdateCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCategoryService(repo)
	ctx := context.Background()

	parent, err := svc.Create(ctx, model.CategoryInput{Name: "Fiction"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, model.CategoryInput{Name: "Thrillers"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, child.ID, model.CategoryInput{Name: "Thrillers", ParentID: &child.ID})
	assert.ErrorIs(t, err, model.ErrInvalidParent)

	missing := uuid.New()
	_, err = svc.Update(ctx, child.ID, model.CategoryInput{Name: "Thrillers", ParentID: &missing})
	assert.ErrorIs(t, err, model.ErrParentNotFound)

	inactive := false
	updated, err := svc.Update(ctx, child.ID, model.CategoryInput{Name: "Crime Thrillers", ParentID: &parent.ID, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "crime-thrillers", updated.Slug)
	assert.Equal(t, parent.ID, *updated.ParentID)
	assert.False(t, updated.IsActive)

	roots, err := svc.ActiveRoots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, parent.ID, roots[0].ID)
}

func TestDeleteCategoryWithBooks(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCategoryService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, model.CategoryInput{Name: "Poetry"})
	require.NoError(t, err)
	repo.used[c.ID] = true

	err = svc.Delete(ctx, c.ID)
	require.ErrorIs(t, err, model.ErrCategoryHasBooks)
	assert.Equal(t, "Cannot delete category with associated books. Please reassign or remove books first.", model.ErrCategoryHasBooks.Message)
}
