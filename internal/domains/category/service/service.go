package service

import (
	"context"
	"errors"
	"time"

	"buxta-backend/internal/domains/category/model"
	"buxta-backend/internal/domains/category/repository"
	"buxta-backend/internal/shared/utils"

	"github.com/google/uuid"
)

type ServiceInterface interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Category, int, error)
	ActiveRoots(ctx context.Context) ([]model.Category, error)
	GetActiveBySlug(ctx context.Context, slug string) (*model.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, in model.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, in model.CategoryInput) (*model.Category, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewCategoryService(repo repository.Repository) ServiceInterface {
	return &categoryService{repo: repo, now: time.Now}
}

func (s *categoryService) List(ctx context.Context, filter model.ListFilter) ([]model.Category, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *categoryService) ActiveRoots(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListActiveRoots(ctx)
}

func (s *categoryService) GetActiveBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return s.repo.GetActiveBySlug(ctx, slug)
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	c := &model.Category{
		ID:        uuid.New(),
		IsActive:  true,
		CreatedAt: now,
	}
	if err := s.apply(ctx, c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = now

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, in model.CategoryInput) (*model.Category, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) apply(ctx context.Context, c *model.Category, in model.CategoryInput) error {
	if in.ParentID != nil {
		if *in.ParentID == c.ID {
			return model.ErrInvalidParent
		}
		if _, err := s.repo.GetByID(ctx, *in.ParentID); err != nil {
			if errors.Is(err, model.ErrCategoryNotFound) {
				return model.ErrParentNotFound
			}
			return err
		}
	}

	if c.Slug == "" || c.Name != in.Name {
		slug, err := utils.UniqueSlug(utils.GenerateSlug(in.Name), func(candidate string) (bool, error) {
			return s.repo.SlugExists(ctx, candidate, c.ID)
		})
		if err != nil {
			return err
		}
		c.Slug = slug
	}

	c.Name = in.Name
	c.Description = in.Description
	c.ImageURL = in.ImageURL
	c.ParentID = in.ParentID
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

func (s *categoryService) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ToggleActive(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
