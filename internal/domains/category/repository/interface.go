package repository

import (
	"context"

	"buxta-backend/internal/domains/category/model"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Category, int, error)
	ListActiveRoots(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetActiveBySlug(ctx context.Context, slug string) (*model.Category, error)
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
